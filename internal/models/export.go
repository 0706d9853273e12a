package models

// FavoritesExport bundles a viewer's favorites with owner metadata for the
// export writers in [formatter].
type FavoritesExport struct {
	Owner      User    `json:"owner"`
	Movies     []Movie `json:"movies"`
	ExportedAt string  `json:"exportedAt"`
}
