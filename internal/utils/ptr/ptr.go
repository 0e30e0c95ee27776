// Package ptr builds the optional fields of partial-update requests.
package ptr

// If returns a pointer to v when set is true and nil otherwise. Commands use
// it to send a field only when the user passed the matching flag.
func If[T any](set bool, v T) *T {
	if !set {
		return nil
	}
	return &v
}
