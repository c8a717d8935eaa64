package box

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/iliyamo/box-connector/internal/model"
)

// CreateUser provisions a user under its enterprise and overwrites local
// state with the canonical server record, which supplies the generated user
// id.
func (c *Client) CreateUser(ctx context.Context, u *model.User) error {
	rec, err := c.do(ctx, http.MethodPost, "users", u.Wire())
	if err != nil {
		return err
	}
	u.MergeCanonical(rec)
	return nil
}

// UpdateUser pushes the user's current mapped fields to the provider.
func (c *Client) UpdateUser(ctx context.Context, u *model.User) error {
	if u.UserID == "" {
		return fmt.Errorf("box: cannot update a user without an id")
	}
	_, err := c.do(ctx, http.MethodPut, "users/"+u.UserID, u.Wire())
	return err
}

// RefreshUser replaces local state with the canonical provider record. A
// user without an id has nothing to refresh.
func (c *Client) RefreshUser(ctx context.Context, u *model.User) error {
	if u.UserID == "" {
		return nil
	}
	rec, err := c.do(ctx, http.MethodGet, "users/"+u.UserID, nil)
	if err != nil {
		return err
	}
	u.MergeCanonical(rec)
	return nil
}

// DeleteUser removes the user from the provider. A 404 means someone else
// already removed it; that is logged and treated as success so deletes stay
// idempotent across control-plane retries.
func (c *Client) DeleteUser(ctx context.Context, u *model.User) error {
	_, err := c.do(ctx, http.MethodDelete, "users/"+u.UserID, nil)
	if IsNotFound(err) {
		log.Printf("box: user %s not found, skipping deletion", u.UserID)
		return nil
	}
	return err
}
