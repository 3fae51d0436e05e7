package quizbank

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"
)

// Parse reads the tab-separated quiz table. Each data row is
// No<TAB>Prompt<TAB><ignored><TAB>Category; a header row starting with
// "No" marks the start of data, and rows whose No column is not an
// integer are skipped.
func Parse(r io.Reader) ([]Question, error) {
	var questions []Question
	tableStarted := false

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		if strings.HasPrefix(line, "No") {
			tableStarted = true
			continue
		}
		if !tableStarted {
			continue
		}

		var parts []string
		for _, part := range strings.Split(line, "\t") {
			if p := strings.TrimSpace(part); p != "" {
				parts = append(parts, p)
			}
		}
		if len(parts) < 2 {
			continue
		}

		order, err := strconv.Atoi(parts[0])
		if err != nil {
			continue
		}
		category := ""
		if len(parts) > 3 {
			category = parts[3]
		}
		questions = append(questions, Question{
			ID:       fmt.Sprintf("q%d", order),
			Order:    order,
			Prompt:   parts[1],
			Category: category,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read quiz table: %w", err)
	}

	sort.Slice(questions, func(i, j int) bool { return questions[i].Order < questions[j].Order })
	return questions, nil
}

// Loader reads the bank from a file exactly once and serves the cached
// slice afterwards. Construction is single-writer; readers share the
// result. A missing or empty path falls back to the built-in bank.
type Loader struct {
	Path string

	once      sync.Once
	questions []Question
	err       error
}

// Questions returns the loaded bank, reading the file on first use.
func (l *Loader) Questions() ([]Question, error) {
	l.once.Do(l.load)
	return l.questions, l.err
}

func (l *Loader) load() {
	if l.Path == "" {
		l.questions = Default()
		return
	}
	f, err := os.Open(l.Path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Printf("quiz file %s not found, using built-in bank", l.Path)
			l.questions = Default()
			return
		}
		l.err = fmt.Errorf("open quiz file: %w", err)
		return
	}
	defer f.Close()

	questions, err := Parse(f)
	if err != nil {
		l.err = err
		return
	}
	if len(questions) != ExpectedCount {
		log.Printf("warning: quiz file %s has %d questions, expected %d", l.Path, len(questions), ExpectedCount)
	}
	l.questions = questions
}
