// Package userfile implements the user repository over a static JSON file.
// The portal serves a small, fixed set of users provisioned out of band;
// a database would be overhead with no upside here.
package userfile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"helpdesk/internal/models"
)

type fileUser struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	Name         string `json:"name"`
	PasswordHash string `json:"passwordHash"`
}

type UserRepo struct {
	byID    map[string]fileUser
	byEmail map[string]fileUser
}

// Open loads and indexes the users file once at startup. The file shape is
// {"users":[{id,email,name,passwordHash}]}.
func Open(path string) (*UserRepo, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read users file: %w", err)
	}
	var doc struct {
		Users []fileUser `json:"users"`
	}
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("parse users file: %w", err)
	}

	r := &UserRepo{
		byID:    make(map[string]fileUser, len(doc.Users)),
		byEmail: make(map[string]fileUser, len(doc.Users)),
	}
	for _, u := range doc.Users {
		if u.ID == "" || u.Email == "" {
			return nil, fmt.Errorf("users file: entry missing id or email")
		}
		r.byID[u.ID] = u
		r.byEmail[strings.ToLower(u.Email)] = u
	}
	return r, nil
}

func (r *UserRepo) GetByEmail(_ context.Context, email string) (*models.User, string, error) {
	u, ok := r.byEmail[strings.ToLower(strings.TrimSpace(email))]
	if !ok {
		return nil, "", nil
	}
	return &models.User{ID: u.ID, Email: u.Email, Name: u.Name}, u.PasswordHash, nil
}

func (r *UserRepo) GetByID(_ context.Context, id string) (*models.User, error) {
	u, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	return &models.User{ID: u.ID, Email: u.Email, Name: u.Name}, nil
}
