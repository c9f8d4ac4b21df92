package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/pagecore/internal/model"
)

func TestResolvePath_BySlug(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()

	home, err := s.CreatePage(ctx, PageInput{Slug: "home", Status: model.PageStatusPublished})
	require.NoError(t, err)
	about, err := s.CreatePage(ctx, PageInput{Slug: "about", ParentID: &home.ID, Status: model.PageStatusPublished})
	require.NoError(t, err)

	res, err := s.ResolvePath(ctx, "home/about", "")
	require.NoError(t, err)
	assert.Equal(t, about.ID, res.Page.ID)
	assert.Equal(t, model.PageStatusPublished, res.Status)
	assert.False(t, res.FromAlias)
	assert.Empty(t, res.RedirectTo)

	// Slashes are trimmed
	res, err = s.ResolvePath(ctx, "/home/about/", "")
	require.NoError(t, err)
	assert.Equal(t, about.ID, res.Page.ID)

	_, err = s.ResolvePath(ctx, "home/missing", "")
	assert.ErrorIs(t, err, ErrPageNotFound)
}

func TestResolvePath_EmptyPathIsFirstRoot(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()

	home, err := s.CreatePage(ctx, PageInput{Slug: "home", Status: model.PageStatusPublished})
	require.NoError(t, err)
	_, err = s.CreatePage(ctx, PageInput{Slug: "second-root"})
	require.NoError(t, err)

	res, err := s.ResolvePath(ctx, "", "")
	require.NoError(t, err)
	assert.Equal(t, home.ID, res.Page.ID)

	res, err = s.ResolvePath(ctx, "/", "")
	require.NoError(t, err)
	assert.Equal(t, home.ID, res.Page.ID)
}

func TestResolvePath_HiddenRootSlug(t *testing.T) {
	s, cfg := newTestService(t)
	cfg.HideRootSlug = true
	ctx := context.Background()

	home, err := s.CreatePage(ctx, PageInput{Slug: "home", Status: model.PageStatusPublished})
	require.NoError(t, err)
	about, err := s.CreatePage(ctx, PageInput{Slug: "about", ParentID: &home.ID, Status: model.PageStatusPublished})
	require.NoError(t, err)

	// The root slug is omitted from request paths
	res, err := s.ResolvePath(ctx, "about", "")
	require.NoError(t, err)
	assert.Equal(t, about.ID, res.Page.ID)

	// The full path still works
	res, err = s.ResolvePath(ctx, "home/about", "")
	require.NoError(t, err)
	assert.Equal(t, about.ID, res.Page.ID)

	url, err := s.PageURL(ctx, about)
	require.NoError(t, err)
	assert.Equal(t, "/about", url)

	url, err = s.PageURL(ctx, home)
	require.NoError(t, err)
	assert.Equal(t, "/", url)
}

func TestResolvePath_Alias(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()

	home, err := s.CreatePage(ctx, PageInput{Slug: "home", Status: model.PageStatusPublished})
	require.NoError(t, err)
	news, err := s.CreatePage(ctx, PageInput{Slug: "news", ParentID: &home.ID, Status: model.PageStatusPublished})
	require.NoError(t, err)
	archive, err := s.CreatePage(ctx, PageInput{Slug: "archive", ParentID: &home.ID, Status: model.PageStatusPublished})
	require.NoError(t, err)

	_, err = s.CreateAlias(ctx, &news.ID, "/index.php")
	require.NoError(t, err)
	_, err = s.CreateAlias(ctx, &archive.ID, "/index.php?page=3")
	require.NoError(t, err)

	// Query string match takes precedence
	res, err := s.ResolvePath(ctx, "index.php", "page=3")
	require.NoError(t, err)
	assert.Equal(t, archive.ID, res.Page.ID)
	assert.True(t, res.FromAlias)
	assert.Equal(t, "/home/archive", res.RedirectTo)

	// Unmatched query falls back to the bare path alias
	res, err = s.ResolvePath(ctx, "index.php", "page=9")
	require.NoError(t, err)
	assert.Equal(t, news.ID, res.Page.ID)
	assert.Equal(t, "/home/news", res.RedirectTo)

	res, err = s.ResolvePath(ctx, "index.php", "")
	require.NoError(t, err)
	assert.Equal(t, news.ID, res.Page.ID)
}

func TestResolvePath_PageRedirects(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()

	home, err := s.CreatePage(ctx, PageInput{Slug: "home", Status: model.PageStatusPublished})
	require.NoError(t, err)
	target, err := s.CreatePage(ctx, PageInput{Slug: "target", ParentID: &home.ID, Status: model.PageStatusPublished})
	require.NoError(t, err)

	external, err := s.CreatePage(ctx, PageInput{
		Slug:          "ext",
		ParentID:      &home.ID,
		Status:        model.PageStatusPublished,
		RedirectToURL: "https://example.com/",
	})
	require.NoError(t, err)

	internal, err := s.CreatePage(ctx, PageInput{
		Slug:         "int",
		ParentID:     &home.ID,
		Status:       model.PageStatusPublished,
		RedirectToID: &target.ID,
	})
	require.NoError(t, err)

	res, err := s.ResolvePath(ctx, "home/ext", "")
	require.NoError(t, err)
	assert.Equal(t, external.ID, res.Page.ID)
	assert.Equal(t, "https://example.com/", res.RedirectTo)

	res, err = s.ResolvePath(ctx, "home/int", "")
	require.NoError(t, err)
	assert.Equal(t, internal.ID, res.Page.ID)
	assert.Equal(t, "/home/target", res.RedirectTo)
}

func TestResolvePath_Delegation(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()

	home, err := s.CreatePage(ctx, PageInput{Slug: "home", Status: model.PageStatusPublished})
	require.NoError(t, err)
	blog, err := s.CreatePage(ctx, PageInput{
		Slug:       "blog",
		ParentID:   &home.ID,
		Status:     model.PageStatusPublished,
		DelegateTo: "blog-app",
	})
	require.NoError(t, err)
	post, err := s.CreatePage(ctx, PageInput{Slug: "post", ParentID: &blog.ID, Status: model.PageStatusPublished})
	require.NoError(t, err)

	res, err := s.ResolvePath(ctx, "home/blog", "")
	require.NoError(t, err)
	assert.Equal(t, "blog-app", res.Delegated)

	// Delegation is inherited by the subtree
	res, err = s.ResolvePath(ctx, "home/blog/post", "")
	require.NoError(t, err)
	assert.Equal(t, post.ID, res.Page.ID)
	assert.Equal(t, "blog-app", res.Delegated)

	res, err = s.ResolvePath(ctx, "home", "")
	require.NoError(t, err)
	assert.Empty(t, res.Delegated)
}

func TestResolveAlias_Dangling(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()

	_, err := s.CreateAlias(ctx, nil, "/gone.html")
	require.NoError(t, err)

	alias, err := s.ResolveAlias(ctx, "/gone.html", "")
	require.NoError(t, err)
	assert.False(t, alias.PageID.Valid)

	// A dangling alias does not resolve to a page
	_, err = s.ResolvePath(ctx, "gone.html", "")
	assert.ErrorIs(t, err, ErrPageNotFound)

	_, err = s.ResolveAlias(ctx, "/never.html", "")
	assert.ErrorIs(t, err, ErrAliasNotFound)
}

func TestAliasLifecycle(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()

	page, err := s.CreatePage(ctx, PageInput{Slug: "home"})
	require.NoError(t, err)

	a1, err := s.CreateAlias(ctx, &page.ID, "old-url.html")
	require.NoError(t, err)
	assert.Equal(t, "/old-url.html", a1.URL, "alias URLs are normalized with a leading slash")

	_, err = s.CreateAlias(ctx, &page.ID, "/other.html")
	require.NoError(t, err)

	aliases, err := s.PageAliases(ctx, page.ID)
	require.NoError(t, err)
	assert.Len(t, aliases, 2)

	require.NoError(t, s.DeleteAlias(ctx, a1.ID))
	aliases, err = s.PageAliases(ctx, page.ID)
	require.NoError(t, err)
	assert.Len(t, aliases, 1)

	// Blank input is rejected, not normalized into an alias for "/"
	var verr *ValidationError
	_, err = s.CreateAlias(ctx, &page.ID, "   ")
	assert.ErrorAs(t, err, &verr)
}
