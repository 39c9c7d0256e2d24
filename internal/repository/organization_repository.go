package repository

import (
    "database/sql"
)

type OrganizationRepositoryInterface interface {
    GetOrgIDByPhoneNumberID(phoneNumberID string) (int, error)
}

// OrganizationRepository maps the provider's phone_number_id (carried on
// every webhook payload) back to the owning organization.
type OrganizationRepository struct {
    DB *sql.DB
}

func (r *OrganizationRepository) GetOrgIDByPhoneNumberID(phoneNumberID string) (int, error) {
    var id int
    err := r.DB.QueryRow(`SELECT id FROM organizations WHERE phone_number_id=$1`, phoneNumberID).Scan(&id)
    if err != nil {
        if err == sql.ErrNoRows {
            return 0, nil
        }
        return 0, err
    }
    return id, nil
}

var _ OrganizationRepositoryInterface = (*OrganizationRepository)(nil)
