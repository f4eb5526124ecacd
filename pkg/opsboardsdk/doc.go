// Package opsboardsdk is a Go client for the opsboard HTTP API.
//
// Unauthenticated calls (health, bootstrap, login and the invitation
// acceptance flow) live on Client. Login returns a Session that carries the
// access token for everything else:
//
//	client := opsboardsdk.NewClient("http://localhost:8080")
//	sess, err := client.Login(ctx, "admin@example.com", "password")
//	if err != nil {
//		return err
//	}
//	inv, err := sess.IssueInvitation(ctx, opsboardsdk.IssueInvitationRequest{
//		Email: "new.hire@example.com",
//		Role:  "employee",
//	})
//
// Errors returned by the server are *APIError values; compare their Code
// with the ErrorCode constants.
package opsboardsdk
