package repository

import (
    "database/sql"

    "github.com/unclebandit/wachat-backend/internal/model"
)

type TemplateRepositoryInterface interface {
    GetByName(orgID int, name, language string) (*model.MessageTemplate, error)
}

// TemplateRepository reads templates synced from the provider by an external
// sync job; this service never writes them.
type TemplateRepository struct {
    DB *sql.DB
}

func (r *TemplateRepository) GetByName(orgID int, name, language string) (*model.MessageTemplate, error) {
    query := `
        SELECT id, org_id, name, language, status, body, created_at
        FROM templates
        WHERE org_id=$1 AND name=$2 AND language=$3
    `
    var t model.MessageTemplate
    err := r.DB.QueryRow(query, orgID, name, language).Scan(&t.ID, &t.OrgID, &t.Name, &t.Language, &t.Status, &t.Body, &t.CreatedAt)
    if err != nil {
        if err == sql.ErrNoRows {
            return nil, nil
        }
        return nil, err
    }
    return &t, nil
}

var _ TemplateRepositoryInterface = (*TemplateRepository)(nil)
