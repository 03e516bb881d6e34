package folio

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"
)

func TestGetBlogBySlugIncrementsViewCount(t *testing.T) {
	a := setupTestApp(t)
	post := createViaHandler(t, a, `{"title":"Counted Post","content":"c","author":"a","isPublished":true}`)

	for i := 1; i <= 2; i++ {
		c, rec := jsonContext(a, http.MethodGet, "/blogs/"+post.Slug, "")
		c.SetParamNames("id")
		c.SetParamValues(post.Slug)
		if err := a.handleGetBlog(c); err != nil {
			t.Fatalf("handleGetBlog failed: %v", err)
		}
		var got BlogPost
		if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if got.ViewCount != int64(i) {
			t.Errorf("view %d: ViewCount = %d, want %d", i, got.ViewCount, i)
		}
	}
}

func TestGetBlogByIDDoesNotIncrementViewCount(t *testing.T) {
	a := setupTestApp(t)
	post := createViaHandler(t, a, `{"title":"Previewed","content":"c","author":"a","isPublished":true}`)

	c, _ := jsonContext(a, http.MethodGet, "/blogs/"+jsonID(post.ID), "")
	c.SetParamNames("id")
	c.SetParamValues(jsonID(post.ID))
	if err := a.handleGetBlog(c); err != nil {
		t.Fatalf("handleGetBlog failed: %v", err)
	}
	stored, err := a.Store.GetPostByID(post.ID)
	if err != nil {
		t.Fatalf("GetPostByID failed: %v", err)
	}
	if stored.ViewCount != 0 {
		t.Errorf("ViewCount = %d, id-addressed reads must not count", stored.ViewCount)
	}
}

func TestGetBlogDraftHiddenFromPublic(t *testing.T) {
	a := setupTestApp(t)
	draft := createViaHandler(t, a, `{"title":"Secret Draft","content":"c","author":"a"}`)

	// By id without an admin session.
	c, _ := jsonContext(a, http.MethodGet, "/blogs/"+jsonID(draft.ID), "")
	c.SetParamNames("id")
	c.SetParamValues(jsonID(draft.ID))
	err := a.handleGetBlog(c)
	if err == nil {
		t.Fatal("expected an error for anonymous draft access")
	}
	if code := httpCode(t, err); code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", code)
	}

	// By slug.
	c, _ = jsonContext(a, http.MethodGet, "/blogs/secret-draft", "")
	c.SetParamNames("id")
	c.SetParamValues("secret-draft")
	err = a.handleGetBlog(c)
	if err == nil {
		t.Fatal("expected an error for draft slug access")
	}
	if code := httpCode(t, err); code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", code)
	}
}

func TestGetBlogRendersContentHTML(t *testing.T) {
	a := setupTestApp(t)
	body := `{"title":"Formatted","content":"# Heading\n\nSome **bold** text.","author":"a","isPublished":true}`
	post := createViaHandler(t, a, body)

	c, rec := jsonContext(a, http.MethodGet, "/blogs/"+post.Slug, "")
	c.SetParamNames("id")
	c.SetParamValues(post.Slug)
	if err := a.handleGetBlog(c); err != nil {
		t.Fatalf("handleGetBlog failed: %v", err)
	}
	var got BlogPost
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !strings.Contains(got.ContentHTML, "<h1>Heading</h1>") {
		t.Errorf("ContentHTML missing heading: %q", got.ContentHTML)
	}
	if !strings.Contains(got.ContentHTML, "<strong>bold</strong>") {
		t.Errorf("ContentHTML missing bold: %q", got.ContentHTML)
	}
}

func TestListBlogsEndpoint(t *testing.T) {
	a := setupTestApp(t)
	createViaHandler(t, a, `{"title":"Listed One","content":"c","author":"a","isPublished":true}`)
	createViaHandler(t, a, `{"title":"Listed Two","content":"c","author":"a","isPublished":true}`)
	createViaHandler(t, a, `{"title":"Hidden Draft Entry","content":"c","author":"a"}`)

	c, rec := jsonContext(a, http.MethodGet, "/blogs?page=1", "")
	if err := a.handleListBlogs(c); err != nil {
		t.Fatalf("handleListBlogs failed: %v", err)
	}
	var resp ListResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Blogs) != 2 {
		t.Errorf("blogs = %d, want 2 published", len(resp.Blogs))
	}
	if resp.Pagination.TotalPosts != 2 || resp.Pagination.TotalPages != 1 {
		t.Errorf("pagination = %+v", resp.Pagination)
	}
}

func TestRelatedBlogsEndpoint(t *testing.T) {
	a := setupTestApp(t)
	source := createViaHandler(t, a, `{"title":"Related Source","content":"c","author":"a","category":"Development","isPublished":true}`)
	createViaHandler(t, a, `{"title":"Related Sibling","content":"c","author":"a","category":"Development","isPublished":true}`)

	c, rec := jsonContext(a, http.MethodGet, "/blogs/"+jsonID(source.ID)+"/related", "")
	c.SetParamNames("id")
	c.SetParamValues(jsonID(source.ID))
	if err := a.handleRelatedBlogs(c); err != nil {
		t.Fatalf("handleRelatedBlogs failed: %v", err)
	}
	var resp struct {
		Blogs []BlogPost `json:"blogs"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Blogs) != 1 || resp.Blogs[0].Slug != "related-sibling" {
		t.Errorf("related = %v", slugs(resp.Blogs))
	}
}
