package tasks

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/adrg/frontmatter"

	"github.com/lysyi3m/wxr-comb/app/assets"
	"github.com/lysyi3m/wxr-comb/app/config"
	"github.com/lysyi3m/wxr-comb/app/wxr"
)

const testExport = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0"
	xmlns:excerpt="http://wordpress.org/export/1.2/excerpt/"
	xmlns:content="http://purl.org/rss/1.0/modules/content/"
	xmlns:dc="http://purl.org/dc/elements/1.1/"
	xmlns:wp="http://wordpress.org/export/1.2/">
<channel>
	<title>Test Blog</title>
	<link>https://blog.example.com</link>
	<description>Just another blog</description>
	<item>
		<title>Hello World</title>
		<link>https://blog.example.com/2024/01/01/hello-world/</link>
		<dc:creator><![CDATA[admin]]></dc:creator>
		<content:encoded><![CDATA[<p>Hello <strong>world</strong></p><p><img src="IMAGE_HOST/images/photo.jpg"/></p>]]></content:encoded>
		<excerpt:encoded><![CDATA[]]></excerpt:encoded>
		<wp:post_id>1</wp:post_id>
		<wp:post_date_gmt><![CDATA[2024-01-01 00:00:00]]></wp:post_date_gmt>
		<wp:post_name><![CDATA[hello-world]]></wp:post_name>
		<wp:status><![CDATA[publish]]></wp:status>
		<wp:post_parent>0</wp:post_parent>
		<wp:post_type><![CDATA[post]]></wp:post_type>
		<category domain="category" nicename="news"><![CDATA[News]]></category>
		<category domain="category" nicename="uncategorized"><![CDATA[Uncategorized]]></category>
		<category domain="post_tag" nicename="go"><![CDATA[go]]></category>
	</item>
	<item>
		<title>Company</title>
		<content:encoded><![CDATA[<p>Who we are</p>]]></content:encoded>
		<wp:post_id>3</wp:post_id>
		<wp:post_date_gmt><![CDATA[2023-01-01 00:00:00]]></wp:post_date_gmt>
		<wp:post_name><![CDATA[company]]></wp:post_name>
		<wp:status><![CDATA[publish]]></wp:status>
		<wp:post_parent>0</wp:post_parent>
		<wp:post_type><![CDATA[page]]></wp:post_type>
	</item>
	<item>
		<title>About</title>
		<content:encoded><![CDATA[<p>About us</p>]]></content:encoded>
		<wp:post_id>4</wp:post_id>
		<wp:post_date_gmt><![CDATA[2023-02-01 00:00:00]]></wp:post_date_gmt>
		<wp:post_name><![CDATA[about]]></wp:post_name>
		<wp:status><![CDATA[draft]]></wp:status>
		<wp:post_parent>3</wp:post_parent>
		<wp:post_type><![CDATA[page]]></wp:post_type>
	</item>
	<item>
		<title>photo</title>
		<wp:post_id>5</wp:post_id>
		<wp:post_name><![CDATA[photo]]></wp:post_name>
		<wp:post_type><![CDATA[attachment]]></wp:post_type>
	</item>
	<item>
		<title>Recipe</title>
		<wp:post_id>6</wp:post_id>
		<wp:post_name><![CDATA[recipe]]></wp:post_name>
		<wp:post_type><![CDATA[recipe]]></wp:post_type>
	</item>
</channel>
</rss>`

type testFrontMatter struct {
	Title         string    `yaml:"title"`
	Date          time.Time `yaml:"date"`
	Slug          string    `yaml:"slug"`
	Template      string    `yaml:"template"`
	FeaturedImage string    `yaml:"featuredImage"`
	Published     *bool     `yaml:"published"`
	Categories    []string  `yaml:"categories"`
	Tags          []string  `yaml:"tags"`
}

func newImageServer(t *testing.T, status int) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if status != http.StatusOK {
			w.WriteHeader(status)
			return
		}
		w.Write([]byte("jpeg-bytes"))
	}))
	t.Cleanup(server.Close)
	return server
}

func newTestTask(t *testing.T, server *httptest.Server, buildDir string) *ConvertExportTask {
	t.Helper()

	exportPath := filepath.Join(t.TempDir(), "blog.xml")
	data := strings.ReplaceAll(testExport, "IMAGE_HOST", server.URL)
	if err := os.WriteFile(exportPath, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	conf, err := config.Parse(nil)
	if err != nil {
		t.Fatal(err)
	}
	conf.BuildDir = buildDir
	conf.TargetFormat = config.FormatMD
	conf.DownloadImages = true

	opts, err := conf.ParserOptions()
	if err != nil {
		t.Fatal(err)
	}

	fetcher := assets.NewDownloader(server.Client(), "Test Agent", 5*time.Second)
	return NewConvertExportTask(exportPath, conf, wxr.NewParser(opts), fetcher)
}

func readDocument(t *testing.T, path string) (testFrontMatter, string) {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Expected %s to exist: %v", path, err)
	}
	if !bytes.HasPrefix(data, []byte("---\n")) {
		t.Errorf("Expected %s to start with a front matter delimiter", path)
	}

	var fm testFrontMatter
	body, err := frontmatter.Parse(bytes.NewReader(data), &fm)
	if err != nil {
		t.Fatalf("Failed to parse front matter of %s: %v", path, err)
	}
	return fm, string(body)
}

func TestConvertExportTask_Execute(t *testing.T) {
	server := newImageServer(t, http.StatusOK)
	buildDir := t.TempDir()
	task := newTestTask(t, server, buildDir)

	task.Start()
	if err := task.Execute(context.Background()); err != nil {
		t.Fatal(err)
	}

	blogDir := filepath.Join(buildDir, "gatsby", "blog.example.com")

	postPath := filepath.Join(blogDir, "_posts", "2024-01-01-hello-world.md")
	raw, err := os.ReadFile(postPath)
	if err != nil {
		t.Fatalf("Expected post file: %v", err)
	}
	if !strings.Contains(string(raw), "date: 2024-01-01T00:00:00+00:00\n") {
		t.Errorf("Expected UTC date line in front matter, got:\n%s", raw)
	}

	post, body := readDocument(t, postPath)
	if post.Title != "Hello World" {
		t.Errorf("Expected title 'Hello World', got '%s'", post.Title)
	}
	if !post.Date.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Expected date 2024-01-01T00:00:00Z, got %v", post.Date)
	}
	if post.Slug != "/hello-world" {
		t.Errorf("Expected slug '/hello-world', got '%s'", post.Slug)
	}
	if post.Template != "blog-post" {
		t.Errorf("Expected template 'blog-post', got '%s'", post.Template)
	}
	if post.Published != nil {
		t.Errorf("Expected no published key for a published post, got %v", *post.Published)
	}
	if post.FeaturedImage != "/assets/2024-01-01-hello-world/photo.jpg" {
		t.Errorf("Expected featured image to be the relocated file, got '%s'", post.FeaturedImage)
	}
	if len(post.Categories) != 1 || post.Categories[0] != "News" {
		t.Errorf("Expected categories [News], got %v", post.Categories)
	}
	if len(post.Tags) != 1 || post.Tags[0] != "go" {
		t.Errorf("Expected tags [go], got %v", post.Tags)
	}
	if !strings.Contains(body, "Hello **world**") {
		t.Errorf("Expected markdown body, got:\n%s", body)
	}
	if !strings.Contains(body, "/assets/2024-01-01-hello-world/photo.jpg") || strings.Contains(body, server.URL) {
		t.Errorf("Expected image reference to be rewritten, got:\n%s", body)
	}

	image, err := os.ReadFile(filepath.Join(blogDir, "assets", "2024-01-01-hello-world", "photo.jpg"))
	if err != nil {
		t.Fatalf("Expected downloaded image: %v", err)
	}
	if string(image) != "jpeg-bytes" {
		t.Errorf("Expected image content 'jpeg-bytes', got '%s'", image)
	}

	company, _ := readDocument(t, filepath.Join(blogDir, "company", "index.md"))
	if company.Template != "page" {
		t.Errorf("Expected template 'page', got '%s'", company.Template)
	}

	about, body := readDocument(t, filepath.Join(blogDir, "company", "about", "index.md"))
	if about.Published == nil || *about.Published {
		t.Errorf("Expected published: false for a draft page, got %v", about.Published)
	}
	if about.Slug != "/about" {
		t.Errorf("Expected slug '/about', got '%s'", about.Slug)
	}
	if !strings.Contains(body, "About us") {
		t.Errorf("Expected page body, got:\n%s", body)
	}

	for _, name := range []string{"photo", "recipe"} {
		if _, err := os.Stat(filepath.Join(blogDir, name)); !os.IsNotExist(err) {
			t.Errorf("Expected no output for %s, got %v", name, err)
		}
	}

	posts, err := os.ReadDir(filepath.Join(blogDir, "_posts"))
	if err != nil {
		t.Fatal(err)
	}
	if len(posts) != 1 {
		t.Errorf("Expected exactly 1 post file, got %d", len(posts))
	}
}

func TestConvertExportTask_FieldFilter(t *testing.T) {
	server := newImageServer(t, http.StatusOK)
	buildDir := t.TempDir()
	task := newTestTask(t, server, buildDir)
	task.config.ItemFieldFilter = config.FieldRules{{Field: "status", Value: "draft"}}

	if err := task.Execute(context.Background()); err != nil {
		t.Fatal(err)
	}

	blogDir := filepath.Join(buildDir, "gatsby", "blog.example.com")
	if _, err := os.Stat(filepath.Join(blogDir, "company", "about")); !os.IsNotExist(err) {
		t.Errorf("Expected draft page to be filtered, got %v", err)
	}
	if _, err := os.Stat(filepath.Join(blogDir, "company", "index.md")); err != nil {
		t.Errorf("Expected published page to be written, got %v", err)
	}
}

func TestConvertExportTask_WithoutDownloads(t *testing.T) {
	server := newImageServer(t, http.StatusInternalServerError)
	buildDir := t.TempDir()
	task := newTestTask(t, server, buildDir)
	task.config.DownloadImages = false
	task.config.TargetFormat = config.FormatHTML

	if err := task.Execute(context.Background()); err != nil {
		t.Fatal(err)
	}

	post, body := readDocument(t, filepath.Join(buildDir, "gatsby", "blog.example.com", "_posts", "2024-01-01-hello-world.html"))
	if post.FeaturedImage != server.URL+"/images/photo.jpg" {
		t.Errorf("Expected featured image to be the absolute URL, got '%s'", post.FeaturedImage)
	}
	if !strings.Contains(body, "<strong>world</strong>") {
		t.Errorf("Expected HTML body to pass through, got:\n%s", body)
	}
}

func TestConvertExportTask_DownloadFailure(t *testing.T) {
	server := newImageServer(t, http.StatusNotFound)
	task := newTestTask(t, server, t.TempDir())

	err := task.Execute(context.Background())
	if !errors.Is(err, assets.ErrDownload) {
		t.Errorf("Expected ErrDownload, got %v", err)
	}
	if errors.Is(err, ErrExportUnreadable) {
		t.Error("Expected download failure not to be reported as unreadable export")
	}
}

func TestConvertExportTask_UnreadableExport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.xml")
	if err := os.WriteFile(path, []byte("not an export"), 0644); err != nil {
		t.Fatal(err)
	}

	conf, err := config.Parse(nil)
	if err != nil {
		t.Fatal(err)
	}
	conf.BuildDir = t.TempDir()

	task := NewConvertExportTask(path, conf, wxr.NewParser(wxr.Options{}), nil)
	if err := task.Execute(context.Background()); !errors.Is(err, ErrExportUnreadable) {
		t.Errorf("Expected ErrExportUnreadable, got %v", err)
	}
}

func TestConvertExportTask_Cancelled(t *testing.T) {
	server := newImageServer(t, http.StatusOK)
	task := newTestTask(t, server, t.TempDir())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := task.Execute(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}
