// Copyright (c) 2026 Vizit. All rights reserved.
// Author: dev@vizit.app

// Package schema holds the canonical table and column registry for the
// Vizit database. Repositories build their SQL from these definitions so
// that a column rename is a one-file change.
package schema

// UserAccountTable represents the 'users.account' table
type UserAccountTable struct {
	Table                  string
	ID                     string
	Email                  string
	Username               string
	Password               string
	FirstName              string
	LastName               string
	Company                string
	Position               string
	PhoneNumber            string
	Role                   string
	IsActive               string
	EmailVerified          string
	EmailVerificationToken string
	PasswordResetToken     string
	PasswordResetExpires   string
	LastLoginAt            string
	CreatedAt              string
	UpdatedAt              string
}

// UserAccount is the schema definition for users.account
var UserAccount = UserAccountTable{
	Table:                  "users.account",
	ID:                     "id",
	Email:                  "email",
	Username:               "username",
	Password:               "passwordhash",
	FirstName:              "firstname",
	LastName:               "lastname",
	Company:                "company",
	Position:               "position",
	PhoneNumber:            "phonenumber",
	Role:                   "role",
	IsActive:               "isactive",
	EmailVerified:          "emailverified",
	EmailVerificationToken: "emailverificationtoken",
	PasswordResetToken:     "passwordresettoken",
	PasswordResetExpires:   "passwordresetexpires",
	LastLoginAt:            "lastloginat",
	CreatedAt:              "createdat",
	UpdatedAt:              "updatedat",
}

// Columns returns all standard column names in canonical scan order.
func (t UserAccountTable) Columns() []string {
	return []string{
		t.ID, t.Email, t.Username, t.Password, t.FirstName, t.LastName,
		t.Company, t.Position, t.PhoneNumber, t.Role, t.IsActive,
		t.EmailVerified, t.EmailVerificationToken, t.PasswordResetToken,
		t.PasswordResetExpires, t.LastLoginAt, t.CreatedAt, t.UpdatedAt,
	}
}
