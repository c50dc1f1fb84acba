package model

import "time"

// Company is a bookable employer attending the fair.  Users make
// interview appointments against a company.  Companies are created
// and maintained by administrators only.
//
// Fields:
//  ID          – primary key identifier.
//  Name        – unique company name.
//  Address     – street address.
//  Website     – company website URL.
//  Description – free-form description shown to applicants.
//  Tel         – contact telephone number.
//  CreatedAt   – creation timestamp.
//  UpdatedAt   – last update timestamp.
type Company struct {
    ID          uint64    // companies.id
    Name        string    // companies.name
    Address     string    // companies.address
    Website     string    // companies.website
    Description string    // companies.description
    Tel         string    // companies.tel
    CreatedAt   time.Time // companies.created_at
    UpdatedAt   time.Time // companies.updated_at
}
