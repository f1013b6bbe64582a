package storage

import (
	"database/sql"
	"fmt"
)

// SaveProfile inserts or updates a cached player profile.
func SaveProfile(p Profile) error {
	_, err := db.Exec(`
		INSERT INTO profiles (id, name, handicap, tee_order, updated_at)
		VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			handicap = excluded.handicap,
			tee_order = excluded.tee_order,
			updated_at = CURRENT_TIMESTAMP
	`, p.ID, p.Name, p.Handicap, p.TeeOrder)
	if err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}
	return nil
}

// GetProfile retrieves a profile by id; missing profiles return nil
func GetProfile(id string) (*Profile, error) {
	var p Profile
	err := db.QueryRow(`
		SELECT id, name, handicap, tee_order, created_at, updated_at
		FROM profiles
		WHERE id = ?
	`, id).Scan(&p.ID, &p.Name, &p.Handicap, &p.TeeOrder, &p.CreatedAt, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return &p, nil
}

// ListProfiles returns all cached profiles ordered by name.
func ListProfiles() ([]Profile, error) {
	rows, err := db.Query(`
		SELECT id, name, handicap, tee_order, created_at, updated_at
		FROM profiles
		ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	defer rows.Close()

	var profiles []Profile
	for rows.Next() {
		var p Profile
		if err := rows.Scan(&p.ID, &p.Name, &p.Handicap, &p.TeeOrder, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return profiles, nil
}

// SelectProfile marks a profile as the active one.
func SelectProfile(id string) error {
	return SetKV(SelectedProfileKey, id)
}

// SelectedProfile returns the active profile, or nil when none is selected.
func SelectedProfile() (*Profile, error) {
	id, err := GetKV(SelectedProfileKey)
	if err != nil || id == "" {
		return nil, err
	}
	return GetProfile(id)
}
