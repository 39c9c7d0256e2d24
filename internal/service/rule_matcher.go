// internal/service/rule_matcher.go
package service

import (
    "strings"
    "unicode"

    "github.com/unclebandit/wachat-backend/internal/model"
    "github.com/unclebandit/wachat-backend/internal/repository"
)

type RuleMatcher struct {
    RuleRepo repository.RuleRepositoryInterface
}

// Match returns the first active rule with any matching keyword, or nil.
// Rules arrive from the repository already ordered (priority asc, created
// asc), so first match wins and later rules are never evaluated. Overlapping
// rules must be ordered deliberately by their authors.
func (m *RuleMatcher) Match(orgID int, text string) (*model.AutomationRule, error) {
    rules, err := m.RuleRepo.ListActiveByOrg(orgID)
    if err != nil {
        return nil, err
    }

    normalized := normalizeText(text)
    if normalized == "" {
        return nil, nil
    }
    padded := " " + normalized + " "

    for _, rule := range rules {
        for _, keyword := range rule.Keywords {
            kw := normalizeText(keyword)
            if kw == "" {
                continue
            }
            // whole-word hit anywhere in the text, or full-text equality
            if normalized == kw || strings.Contains(padded, " "+kw+" ") {
                return rule, nil
            }
        }
    }
    return nil, nil
}

// normalizeText lowercases and collapses the input to space-separated word
// tokens, so punctuation never blocks a keyword hit ("hello!" matches "hello").
func normalizeText(s string) string {
    fields := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
        return !unicode.IsLetter(r) && !unicode.IsNumber(r)
    })
    return strings.Join(fields, " ")
}
