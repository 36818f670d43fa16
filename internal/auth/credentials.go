package auth

import "fmt"

// Verifier checks a username/password pair and returns the identity it
// authenticates as.
type Verifier interface {
	Verify(username, password string) (identity string, ok bool)
}

// CredentialTable is a fixed set of users and their Argon2id password hashes.
// It is read-only after construction and safe for concurrent use.
type CredentialTable struct {
	users map[string]string
	// decoy is checked for unknown users so every attempt costs one hash.
	decoy string
}

// NewCredentialTable builds a table from username -> PHC hash pairs and
// rejects hashes that cannot be parsed.
func NewCredentialTable(users map[string]string) (*CredentialTable, error) {
	decoy, err := HashPassword("decoy")
	if err != nil {
		return nil, fmt.Errorf("decoy hash: %w", err)
	}

	table := &CredentialTable{users: make(map[string]string, len(users)), decoy: decoy}
	for name, hash := range users {
		if _, err := decodePHC(hash); err != nil {
			return nil, fmt.Errorf("password hash for user %q: %w", name, err)
		}
		table.users[name] = hash
	}
	return table, nil
}

// Verify implements Verifier.
func (t *CredentialTable) Verify(username, password string) (string, bool) {
	hash, ok := t.users[username]
	if !ok {
		_, _ = VerifyPassword(password, t.decoy)
		return "", false
	}
	match, err := VerifyPassword(password, hash)
	if err != nil || !match {
		return "", false
	}
	return username, true
}
