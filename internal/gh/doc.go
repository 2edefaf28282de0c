// Package gh wraps the GitHub REST API calls missionci needs: comparing
// commits, listing and creating pull request reviews, and fetching release
// assets.
//
// Usage:
//
//	client, err := gh.New(token, gh.WithTimeout(30*time.Second))
//	files, err := client.CompareFiles(ctx, "owner", "repo", base, head)
//	reviews, err := client.ListReviews(ctx, "owner", "repo", 42)
package gh
