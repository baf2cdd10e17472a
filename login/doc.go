// Package login verifies a username and password against the credential store.
//
// It implements the brute force lab's login check: the password is hashed
// with a fixed, unsalted hash function, and the store is queried for records
// matching both the user name and the hash. Exactly one matching record
// authenticates the user. The rendered output deliberately embeds the raw
// user name and avatar reference, since the lab exists to be attacked.
package login
