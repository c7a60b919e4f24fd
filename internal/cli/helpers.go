package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lingo-quest/lingo/internal/daemon"
	"github.com/lingo-quest/lingo/internal/domain"
)

// openDaemon opens the configured profile without starting the server.
func openDaemon() (*daemon.Daemon, error) {
	cfg, err := daemon.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return daemon.OpenOffline(cfg)
}

// parseAnswers turns "1101" (or "TTFT") into answers, one per character.
func parseAnswers(s string, difficulty domain.Difficulty, category domain.SkillField) ([]domain.Answer, error) {
	answers := make([]domain.Answer, 0, len(s))
	for i, c := range strings.ToUpper(s) {
		var correct bool
		switch c {
		case '1', 'T', 'Y':
			correct = true
		case '0', 'F', 'N':
		default:
			return nil, fmt.Errorf("answer %d: %q is not one of 1/0/T/F", i+1, c)
		}
		answers = append(answers, domain.Answer{
			QuestionID: "q" + strconv.Itoa(i+1),
			IsCorrect:  correct,
			Difficulty: difficulty,
			Category:   category,
		})
	}
	return answers, nil
}

// parseAllocation reads six integers in field order.
func parseAllocation(args []string) (domain.StatusAllocation, error) {
	if len(args) != 6 {
		return domain.StatusAllocation{}, fmt.Errorf("want 6 values (listening reading writing grammar idioms vocabulary), got %d", len(args))
	}
	v := make([]int, 6)
	for i, a := range args {
		n, err := strconv.Atoi(a)
		if err != nil {
			return domain.StatusAllocation{}, fmt.Errorf("value %d: %w", i+1, err)
		}
		v[i] = n
	}
	return domain.StatusAllocation{
		Listening:  v[0],
		Reading:    v[1],
		Writing:    v[2],
		Grammar:    v[3],
		Idioms:     v[4],
		Vocabulary: v[5],
	}, nil
}
