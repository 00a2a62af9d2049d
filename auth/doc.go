// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth verifies callers.

# User Tokens

Signed-in users send the access token issued by the auth provider:

	Authorization: Bearer <jwt>

Tokens are HS256 JWTs signed with the project's JWT secret, with audience
"authenticated" and a UUID subject. ParseUserToken verifies the signature,
audience and expiry and returns the subject as the user id:

	userID, err := auth.ParseUserToken(token, secret)

IssueUserToken mints an equivalent token for local development and tests.

# Admin Key

The Manito draw is triggered by an operator holding the admin key, sent in
the X-Admin-Key header and compared in constant time:

	err := auth.ValidateAdminKey(r.Header.Get("X-Admin-Key"), cfg.AdminKey)
*/
package auth
