// ABOUTME: Favorite is the reusable favoritable capability
// ABOUTME: Embedded by catalog items and journal entries so toggling logic lives in one place
package models

// Favorite holds a user's favorite flag
type Favorite struct {
	Favorite bool `json:"favorite" yaml:"favorite"`
}

// IsFavorite reports the current flag
func (f *Favorite) IsFavorite() bool {
	return f.Favorite
}

// SetFavorite sets the flag explicitly
func (f *Favorite) SetFavorite(v bool) {
	f.Favorite = v
}

// ToggleFavorite flips the flag and returns the new state
func (f *Favorite) ToggleFavorite() bool {
	f.Favorite = !f.Favorite
	return f.Favorite
}

// Favoritable is implemented by anything embedding Favorite
type Favoritable interface {
	IsFavorite() bool
	SetFavorite(bool)
	ToggleFavorite() bool
}
