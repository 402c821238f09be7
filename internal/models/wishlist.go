package models

// WishlistItem is a saved-for-later product. Entries are keyed by product ID;
// the display fields are snapshots taken when the item was added.
type WishlistItem struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
	Price string `json:"price"`
	Img   string `json:"img"`
}
