package model

import "time"

// Jobfair is a fair venue users can reserve a visiting slot at.
// Like companies, job fairs are administered by ADMIN users and act
// as the parent resource for reservations.
type Jobfair struct {
    ID         uint64    // jobfairs.id
    Name       string    // jobfairs.name
    Address    string    // jobfairs.address
    District   string    // jobfairs.district
    Province   string    // jobfairs.province
    Postalcode string    // jobfairs.postalcode (5 digits)
    Tel        string    // jobfairs.tel (optional)
    Region     string    // jobfairs.region
    CreatedAt  time.Time // jobfairs.created_at
    UpdatedAt  time.Time // jobfairs.updated_at
}
