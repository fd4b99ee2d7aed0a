// Package security validates vault names given on the command line.
//
// A bare vault name resolves to <dir>/<name>.pwv and must never point
// outside the vault directory.
package security
