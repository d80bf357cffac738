package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ErrInputClosed возвращается, когда stdin дошёл до EOF.
var ErrInputClosed = errors.New("ввод закрыт")

type prompter struct {
	scanner *bufio.Scanner
	out     io.Writer
}

func newPrompter(in io.Reader, out io.Writer) *prompter {
	return &prompter{scanner: bufio.NewScanner(in), out: out}
}

// ask печатает label без перевода строки и возвращает ответ без пробелов по краям.
func (p *prompter) ask(label string) (string, error) {
	fmt.Fprint(p.out, label)
	if !p.scanner.Scan() {
		// строка ответа не придёт, переводим строку за пользователя
		fmt.Fprintln(p.out)
		if err := p.scanner.Err(); err != nil {
			return "", fmt.Errorf("чтение ввода: %w", err)
		}
		return "", ErrInputClosed
	}
	return strings.TrimSpace(p.scanner.Text()), nil
}

// askID возвращает ok=false, если ответ не целое число.
func (p *prompter) askID(label string) (id int, ok bool, err error) {
	answer, err := p.ask(label)
	if err != nil {
		return 0, false, err
	}
	id, convErr := strconv.Atoi(answer)
	if convErr != nil {
		return 0, false, nil
	}
	return id, true, nil
}

// confirm: согласие только "y" и "yes".
func (p *prompter) confirm(label string) (bool, error) {
	answer, err := p.ask(label)
	if err != nil {
		return false, err
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

// splitTags отбрасывает пустые теги.
func splitTags(s string) []string {
	tags := []string{}
	for _, tag := range strings.Split(s, ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}
