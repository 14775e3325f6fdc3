package assets

import (
	"regexp"
	"strings"
)

var (
	flickrFarmHost = regexp.MustCompile(`farm\d+\.static\.?flickr\.com`)
	flickrJPEG     = regexp.MustCompile(`(_[a-z])?\.jpg$`)
)

// DownloadURL rewrites Flickr "farmN.static" URLs to the live host and asks
// for the large (1024px) size. Other URLs are returned unchanged.
func DownloadURL(fullURL string) string {
	if !strings.Contains(fullURL, "flickr.com") {
		return fullURL
	}

	u := flickrFarmHost.ReplaceAllString(fullURL, "live.staticflickr.com")
	return flickrJPEG.ReplaceAllString(u, "_b.jpg")
}
