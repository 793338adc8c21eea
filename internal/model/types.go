package model

// Release is the subset of the GitHub release payload that repostore uses.
type Release struct {
	TagName    string  `json:"tag_name"`
	Name       string  `json:"name"`
	Prerelease bool    `json:"prerelease"`
	Assets     []Asset `json:"assets"`
}

// Asset is the subset of the GitHub release asset payload that repostore uses.
type Asset struct {
	Name               string `json:"name"`
	BrowserDownloadUrl string `json:"browser_download_url"`
	Size               int64  `json:"size"`
	ContentType        string `json:"content_type,omitempty"`
}

// AssetNames returns asset names in payload order.
func (r *Release) AssetNames() []string {
	names := make([]string, len(r.Assets))
	for i := range r.Assets {
		names[i] = r.Assets[i].Name
	}
	return names
}

