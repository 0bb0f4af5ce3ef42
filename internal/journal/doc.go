// Package journal implements the live, password-bound handle to one journal
// file.
//
// A Session owns an in-memory store of encrypted entries, the password the
// entries are encrypted with, and the path of the backing file. Entries are
// encrypted on AddEntry and decrypted on GetEntry; nothing is written to
// disk until Save or SaveAsync is called.
//
// Lifecycle
//
//   - Create makes a new, empty journal file and fails if anything already
//     exists at the path.
//   - Open loads an existing file and checks the password by decrypting one
//     entry. An empty journal cannot be checked and always opens.
//   - Close wipes the password; the session is unusable afterwards.
//
// Errors returned by this package wrap one of the sentinels in
// internal/common (ErrNotFound, ErrIncorrectPassword, ErrIO, ...) together
// with the underlying cause, so callers can use errors.Is on either.
package journal
