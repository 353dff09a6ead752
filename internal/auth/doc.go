// Package auth implements the identity subsystem.
//
// Two login flows are supported:
//
//   - local password login: email and an Argon2id hashed password
//   - phone OTP login: a HOTP code derived from a per-user secret and
//     counter; codes are written to the log, SMS delivery is out of scope
//
// Successful logins are turned into cookie sessions by the web handlers, the
// session payload is the full user record. The exchange core references users
// through their IDs and never mutates them.
package auth
