package service

import (
	"context"
	"encoding/json"
	"log"

	"github.com/Key0string/SponsorBlockServer/internal/config"
	"github.com/Key0string/SponsorBlockServer/internal/model"
	"github.com/Key0string/SponsorBlockServer/internal/repository"
	"github.com/Key0string/SponsorBlockServer/pkg/hash"
)

// SegmentService serves segment lookups with a cache-aside layer, and counts
// segment views.
type SegmentService struct {
	segments *repository.SegmentRepo
	cache    *CacheService
	cfg      *config.Config
}

func NewSegmentService(segments *repository.SegmentRepo, cache *CacheService, cfg *config.Config) *SegmentService {
	return &SegmentService{segments: segments, cache: cache, cfg: cfg}
}

// GetVideoSegments returns a video's visible segments, optionally filtered by
// category. Unfiltered lookups are served cache-aside; filtered ones always
// hit the database since the cache stores the full listing.
func (s *SegmentService) GetVideoSegments(ctx context.Context, videoID string, categories []string) ([]model.SegmentResponse, error) {
	if len(categories) == 0 {
		cached, err := s.cache.GetVideoSegments(ctx, videoID)
		if err != nil {
			log.Printf("cache: get video segments error: %v", err)
		} else if cached != nil {
			var resp []model.SegmentResponse
			if err := json.Unmarshal(cached, &resp); err == nil {
				return resp, nil
			}
			log.Printf("cache: corrupt entry for video %s, falling through", videoID)
		}
	}

	segments, err := s.segments.FindVisibleByVideoID(ctx, videoID, categories, s.cfg.HiddenVoteThreshold)
	if err != nil {
		return nil, err
	}
	resp := toSegmentResponses(segments, false)

	if len(categories) == 0 {
		if err := s.cache.SetVideoSegments(ctx, videoID, resp); err != nil {
			log.Printf("cache: set video segments error: %v", err)
		}
	}
	return resp, nil
}

// GetSegmentsByHashPrefix returns the visible segments of every video whose
// hashed ID matches the prefix, grouped per video. The caller only learns
// which video it asked about; the server never sees the plain query intent.
func (s *SegmentService) GetSegmentsByHashPrefix(ctx context.Context, prefix string, categories []string) ([]model.VideoSegmentsResponse, error) {
	segments, err := s.segments.FindByHashPrefix(ctx, prefix, s.cfg.HiddenVoteThreshold)
	if err != nil {
		return nil, err
	}

	filter := make(map[string]bool, len(categories))
	for _, c := range categories {
		filter[c] = true
	}

	byVideo := make(map[string]*model.VideoSegmentsResponse)
	var order []string
	for _, seg := range segments {
		if len(filter) > 0 && !filter[seg.Category] {
			continue
		}
		group, ok := byVideo[seg.VideoID]
		if !ok {
			group = &model.VideoSegmentsResponse{
				VideoID: seg.VideoID,
				Hash:    hash.SHA256Hex(seg.VideoID),
			}
			byVideo[seg.VideoID] = group
			order = append(order, seg.VideoID)
		}
		group.Segments = append(group.Segments, toSegmentResponse(seg, false))
	}

	resp := make([]model.VideoSegmentsResponse, 0, len(order))
	for _, videoID := range order {
		resp = append(resp, *byVideo[videoID])
	}
	return resp, nil
}

// RecordView bumps a segment's view counter. Returns false when the segment
// does not exist.
func (s *SegmentService) RecordView(ctx context.Context, uuid string) (bool, error) {
	return s.segments.IncrementViews(ctx, uuid)
}

func toSegmentResponse(seg model.Segment, includeVideoID bool) model.SegmentResponse {
	r := model.SegmentResponse{
		UUID:      seg.UUID,
		Category:  seg.Category,
		StartTime: seg.StartTime,
		EndTime:   seg.EndTime,
		Votes:     seg.Votes,
		Views:     seg.Views,
		Locked:    seg.Locked,
	}
	if includeVideoID {
		r.VideoID = seg.VideoID
	}
	return r
}

func toSegmentResponses(segments []model.Segment, includeVideoID bool) []model.SegmentResponse {
	resp := make([]model.SegmentResponse, 0, len(segments))
	for _, seg := range segments {
		resp = append(resp, toSegmentResponse(seg, includeVideoID))
	}
	return resp
}
