package domain

// Site is the singleton document holding editable storefront configuration.
type Site struct {
	ID       string                 `bson:"_id,omitempty" json:"_id"`
	Name     string                 `bson:"name" json:"name"`
	SiteInfo map[string]interface{} `bson:"site_info" json:"siteInfo"`
}
