package service

import "slices"

// Wishlist is a set of saved product ids, kept in the order they were added
type Wishlist struct {
	ids []string
}

func NewWishlist(ids []string) *Wishlist {
	return &Wishlist{ids: ids}
}

// Toggle adds the product if absent, removes it otherwise, and reports
// whether it is a member afterwards.
func (w *Wishlist) Toggle(productID string) bool {
	if i := slices.Index(w.ids, productID); i >= 0 {
		w.ids = slices.Delete(w.ids, i, i+1)
		return false
	}
	w.ids = append(w.ids, productID)
	return true
}

func (w *Wishlist) IsMember(productID string) bool {
	return slices.Contains(w.ids, productID)
}

// Remove drops the product and reports whether it was present
func (w *Wishlist) Remove(productID string) bool {
	i := slices.Index(w.ids, productID)
	if i < 0 {
		return false
	}
	w.ids = slices.Delete(w.ids, i, i+1)
	return true
}

func (w *Wishlist) IDs() []string {
	return slices.Clone(w.ids)
}
