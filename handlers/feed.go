package handlers

import (
	"context"
	"log"
	"net/http"
	"sort"
	"strings"
	"time"

	"umedia/database"
	"umedia/models"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/sync/errgroup"
)

// The query engine caps "value in set" predicates at 30 values, so larger id
// sets are partitioned and queried as parallel batches.
const inQueryLimit = 30

// GeneralForum is the reserved sentinel for ungrouped posts. It is never a
// real forum document.
const GeneralForum = "general"

// chunkIDs partitions ids into slices of at most size elements, preserving
// order. No element is dropped or duplicated.
func chunkIDs[T any](ids []T, size int) [][]T {
	if size <= 0 || len(ids) == 0 {
		return nil
	}
	chunks := make([][]T, 0, (len(ids)+size-1)/size)
	for i := 0; i < len(ids); i += size {
		end := i + size
		if end > len(ids) {
			end = len(ids)
		}
		chunks = append(chunks, ids[i:end])
	}
	return chunks
}

// dedupePosts keeps the first occurrence of each post id. Chunk queries are
// disjoint by construction, but merged pages are deduplicated anyway.
func dedupePosts(posts []models.Post) []models.Post {
	seen := make(map[string]bool, len(posts))
	out := posts[:0:0]
	for _, p := range posts {
		if seen[p.PostID] {
			continue
		}
		seen[p.PostID] = true
		out = append(out, p)
	}
	return out
}

// sortPostsDesc orders by creation time descending, comparing server
// timestamps as milliseconds. A post whose timestamp has not resolved yet
// sorts as "now" instead of sinking to the bottom.
func sortPostsDesc(posts []models.Post) {
	now := time.Now().UnixMilli()
	at := func(p models.Post) int64 {
		if p.CreatedAt == 0 {
			return now
		}
		return p.CreatedAt
	}
	sort.SliceStable(posts, func(i, j int) bool {
		return at(posts[i]) > at(posts[j])
	})
}

// GetFeed serves both feed views. location=home personalizes on the viewer's
// followed users; otherwise forumIds selects one or more forums.
func GetFeed(c *gin.Context) {
	location := c.DefaultQuery("location", "home")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if location == "home" {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		posts, err := fetchFollowedPosts(ctx, userID)
		if err != nil {
			log.Printf("GetFeed home error: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch posts"})
			return
		}
		c.JSON(http.StatusOK, posts)
		return
	}

	forumIDs := strings.Split(c.Query("forumIds"), ",")
	ids := forumIDs[:0]
	for _, id := range forumIDs {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "forumIds is required for forum view"})
		return
	}

	posts, err := fetchForumPosts(ctx, ids)
	if err != nil {
		log.Printf("GetFeed forum error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch posts"})
		return
	}
	c.JSON(http.StatusOK, posts)
}

// fetchFollowedPosts loads the viewer's followed-user ids and runs one
// chunked query per batch, all concurrently, over general-forum posts only.
// An empty following list skips the query fan-out entirely.
func fetchFollowedPosts(ctx context.Context, userID primitive.ObjectID) ([]models.Post, error) {
	cursor, err := database.Following.Find(ctx, bson.M{"userId": userID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var relations []models.FollowRelation
	if err := cursor.All(ctx, &relations); err != nil {
		return nil, err
	}

	followedIDs := make([]primitive.ObjectID, 0, len(relations))
	for _, rel := range relations {
		followedIDs = append(followedIDs, rel.TargetID)
	}
	if len(followedIDs) == 0 {
		return []models.Post{}, nil
	}

	chunks := chunkIDs(followedIDs, inQueryLimit)
	pages := make([][]models.Post, len(chunks))

	g, gctx := errgroup.WithContext(ctx)
	for i, chunk := range chunks {
		g.Go(func() error {
			filter := bson.M{
				"forumId": GeneralForum,
				"userId":  bson.M{"$in": chunk},
			}
			opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
			cur, err := database.Posts.Find(gctx, filter, opts)
			if err != nil {
				return err
			}
			defer cur.Close(gctx)

			var page []models.Post
			if err := cur.All(gctx, &page); err != nil {
				return err
			}
			pages[i] = page
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var merged []models.Post
	for _, page := range pages {
		merged = append(merged, page...)
	}

	merged = dedupePosts(merged)
	sortPostsDesc(merged)
	if merged == nil {
		merged = []models.Post{}
	}
	return merged, nil
}

// fetchForumPosts queries posts across one or more forums, chunked at the
// same predicate ceiling. Forum ids are disjoint per post, but the merged
// pages still go through dedup.
func fetchForumPosts(ctx context.Context, forumIDs []string) ([]models.Post, error) {
	chunks := chunkIDs(forumIDs, inQueryLimit)
	pages := make([][]models.Post, len(chunks))

	g, gctx := errgroup.WithContext(ctx)
	for i, chunk := range chunks {
		g.Go(func() error {
			filter := bson.M{"forumId": bson.M{"$in": chunk}}
			opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
			cur, err := database.Posts.Find(gctx, filter, opts)
			if err != nil {
				return err
			}
			defer cur.Close(gctx)

			var page []models.Post
			if err := cur.All(gctx, &page); err != nil {
				return err
			}
			pages[i] = page
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var merged []models.Post
	for _, page := range pages {
		merged = append(merged, page...)
	}

	merged = dedupePosts(merged)
	sortPostsDesc(merged)
	if merged == nil {
		merged = []models.Post{}
	}
	return merged, nil
}
