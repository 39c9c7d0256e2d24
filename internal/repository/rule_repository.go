package repository

import (
    "database/sql"

    "github.com/lib/pq"

    "github.com/unclebandit/wachat-backend/internal/model"
)

type RuleRepositoryInterface interface {
    ListActiveByOrg(orgID int) ([]*model.AutomationRule, error)
}

type RuleRepository struct {
    DB *sql.DB
}

// ListActiveByOrg returns active keyword rules in matching order: priority
// ascending, ties broken by creation time then id. Ordering is done at read
// time on every call, there is no cached ordering state.
func (r *RuleRepository) ListActiveByOrg(orgID int) ([]*model.AutomationRule, error) {
    query := `
        SELECT id, org_id, name, keywords, action_kind, action_text,
               template_name, template_language, template_params, priority, active, created_at
        FROM automation_rules
        WHERE org_id=$1 AND active=true
        ORDER BY priority ASC, created_at ASC, id ASC
    `
    rows, err := r.DB.Query(query, orgID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()

    rules := []*model.AutomationRule{}
    for rows.Next() {
        rule := &model.AutomationRule{}
        if err := rows.Scan(
            &rule.ID, &rule.OrgID, &rule.Name, pq.Array(&rule.Keywords),
            &rule.ActionKind, &rule.ActionText, &rule.TemplateName,
            &rule.TemplateLanguage, pq.Array(&rule.TemplateParams),
            &rule.Priority, &rule.Active, &rule.CreatedAt,
        ); err != nil {
            return nil, err
        }
        rules = append(rules, rule)
    }
    return rules, rows.Err()
}

var _ RuleRepositoryInterface = (*RuleRepository)(nil)
