package models

// MediaAsset is the handle returned by the external media host after an
// upload. PublicID is what the host needs to delete the asset again.
type MediaAsset struct {
	URL      string `json:"url"`
	PublicID string `json:"publicId"`
}
