package repository

import (
    "database/sql"

    "github.com/unclebandit/wachat-backend/internal/model"
)

type BusinessHoursRepositoryInterface interface {
    ListByOrg(orgID int) ([]*model.BusinessHoursRule, error)
}

type BusinessHoursRepository struct {
    DB *sql.DB
}

func (r *BusinessHoursRepository) ListByOrg(orgID int) ([]*model.BusinessHoursRule, error) {
    query := `
        SELECT id, org_id, day_of_week, start_time, end_time, timezone
        FROM business_hours_rules
        WHERE org_id=$1
        ORDER BY day_of_week, start_time
    `
    rows, err := r.DB.Query(query, orgID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()

    rules := []*model.BusinessHoursRule{}
    for rows.Next() {
        rule := &model.BusinessHoursRule{}
        if err := rows.Scan(&rule.ID, &rule.OrgID, &rule.DayOfWeek, &rule.StartTime, &rule.EndTime, &rule.Timezone); err != nil {
            return nil, err
        }
        rules = append(rules, rule)
    }
    return rules, rows.Err()
}

var _ BusinessHoursRepositoryInterface = (*BusinessHoursRepository)(nil)
