// Package domain contains the core vocabulary of the espalier engine:
// events, guards, actions, machine configuration and the immutable
// runtime snapshot.
//
// Everything here is plain data or pure functions. The transition
// algorithm lives in the internal runtime; hosts normally interact with
// the root espalier package instead of building these types by hand.
package domain
