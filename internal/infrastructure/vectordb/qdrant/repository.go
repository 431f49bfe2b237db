// Package qdrant provides a StatIndex implementation using Qdrant.
package qdrant

import (
	"context"
	"errors"
	"fmt"

	pb "github.com/qdrant/go-client/qdrant"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"

	"github.com/ersonp/dex-core/internal/domain/entities"
	"github.com/ersonp/dex-core/internal/domain/ports"
	"github.com/ersonp/dex-core/internal/infrastructure/config"
)

// upsertBatchSize caps the points sent per Upsert call.
const upsertBatchSize = 256

// Repository implements the StatIndex interface using Qdrant.
type Repository struct {
	client     pb.CollectionsClient
	points     pb.PointsClient
	collection string
	conn       *grpc.ClientConn
}

// NewRepository creates a new Qdrant repository.
func NewRepository(cfg config.QdrantConfig) (*Repository, error) {
	if cfg.Host == "" {
		return nil, errors.New("qdrant host is required")
	}
	if cfg.Collection == "" {
		return nil, errors.New("qdrant collection is required")
	}
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)

	opts := []grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}
	if cfg.APIKey != "" {
		opts = append(opts, grpc.WithUnaryInterceptor(apiKeyInterceptor(cfg.APIKey)))
	}

	conn, err := grpc.NewClient(addr, opts...)
	if err != nil {
		return nil, fmt.Errorf("connecting to qdrant: %w", err)
	}

	return &Repository{
		client:     pb.NewCollectionsClient(conn),
		points:     pb.NewPointsClient(conn),
		collection: cfg.Collection,
		conn:       conn,
	}, nil
}

// apiKeyInterceptor attaches the Qdrant Cloud api-key header to every call.
func apiKeyInterceptor(key string) grpc.UnaryClientInterceptor {
	return func(ctx context.Context, method string, req, reply any, cc *grpc.ClientConn, invoker grpc.UnaryInvoker, opts ...grpc.CallOption) error {
		ctx = metadata.AppendToOutgoingContext(ctx, "api-key", key)
		return invoker(ctx, method, req, reply, cc, opts...)
	}
}

// Close closes the gRPC connection.
func (r *Repository) Close() error {
	if r.conn != nil {
		return r.conn.Close()
	}
	return nil
}

// EnsureCollection creates the collection if it doesn't exist.
func (r *Repository) EnsureCollection(ctx context.Context, vectorSize uint64) error {
	_, err := r.client.Get(ctx, &pb.GetCollectionInfoRequest{
		CollectionName: r.collection,
	})
	if err == nil {
		return nil
	}

	_, err = r.client.Create(ctx, &pb.CreateCollection{
		CollectionName: r.collection,
		VectorsConfig: &pb.VectorsConfig{
			Config: &pb.VectorsConfig_Params{
				Params: &pb.VectorParams{
					Size:     vectorSize,
					Distance: pb.Distance_Euclid,
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("creating collection: %w", err)
	}

	return nil
}

// Upsert stores the stat vectors of records, keyed by record id.
func (r *Repository) Upsert(ctx context.Context, records []entities.Record) error {
	for start := 0; start < len(records); start += upsertBatchSize {
		end := min(start+upsertBatchSize, len(records))

		_, err := r.points.Upsert(ctx, &pb.UpsertPoints{
			CollectionName: r.collection,
			Wait:           pb.PtrOf(true),
			Points:         recordsToPoints(records[start:end]),
		})
		if err != nil {
			return fmt.Errorf("upserting points: %w", err)
		}
	}
	return nil
}

// Nearest returns up to limit records closest to vector, skipping excludeID.
func (r *Repository) Nearest(ctx context.Context, vector []float32, limit int, excludeID int) ([]ports.StatMatch, error) {
	req := &pb.SearchPoints{
		CollectionName: r.collection,
		Vector:         vector,
		Limit:          uint64(limit),
		WithPayload: &pb.WithPayloadSelector{
			SelectorOptions: &pb.WithPayloadSelector_Enable{Enable: true},
		},
	}
	if excludeID > 0 {
		req.Filter = &pb.Filter{
			MustNot: []*pb.Condition{
				{
					ConditionOneOf: &pb.Condition_HasId{
						HasId: &pb.HasIdCondition{
							HasId: []*pb.PointId{pointID(excludeID)},
						},
					},
				},
			},
		}
	}

	resp, err := r.points.Search(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("searching points: %w", err)
	}

	return scoredPointsToMatches(resp.Result), nil
}

// Count returns the number of indexed records.
func (r *Repository) Count(ctx context.Context) (uint64, error) {
	resp, err := r.client.Get(ctx, &pb.GetCollectionInfoRequest{
		CollectionName: r.collection,
	})
	if err != nil {
		return 0, fmt.Errorf("getting collection info: %w", err)
	}

	if resp.Result.PointsCount == nil {
		return 0, nil
	}

	return *resp.Result.PointsCount, nil
}

// DeleteAll removes every indexed record.
func (r *Repository) DeleteAll(ctx context.Context) error {
	_, err := r.points.Delete(ctx, &pb.DeletePoints{
		CollectionName: r.collection,
		Points: &pb.PointsSelector{
			PointsSelectorOneOf: &pb.PointsSelector_Filter{
				Filter: &pb.Filter{},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("deleting all points: %w", err)
	}

	return nil
}

func pointID(id int) *pb.PointId {
	return &pb.PointId{PointIdOptions: &pb.PointId_Num{Num: uint64(id)}}
}

// recordsToPoints converts records to Qdrant points.
func recordsToPoints(records []entities.Record) []*pb.PointStruct {
	points := make([]*pb.PointStruct, 0, len(records))
	for _, rec := range records {
		points = append(points, &pb.PointStruct{
			Id: pointID(rec.ID),
			Vectors: &pb.Vectors{
				VectorsOptions: &pb.Vectors_Vector{
					Vector: &pb.Vector{
						Data: rec.Stats.Vector(),
					},
				},
			},
			Payload: map[string]*pb.Value{
				"name":      {Kind: &pb.Value_StringValue{StringValue: rec.Name}},
				"base_name": {Kind: &pb.Value_StringValue{StringValue: rec.BaseName}},
				"form":      {Kind: &pb.Value_StringValue{StringValue: rec.Form}},
				"type_1":    {Kind: &pb.Value_StringValue{StringValue: rec.Type1}},
				"type_2":    {Kind: &pb.Value_StringValue{StringValue: rec.Type2}},
				"total":     {Kind: &pb.Value_DoubleValue{DoubleValue: rec.TotalStats}},
			},
		})
	}
	return points
}

// scoredPointsToMatches converts scored points to stat matches. With the
// Euclid metric the score is the distance.
func scoredPointsToMatches(points []*pb.ScoredPoint) []ports.StatMatch {
	matches := make([]ports.StatMatch, 0, len(points))
	for _, point := range points {
		matches = append(matches, ports.StatMatch{
			ID:       int(point.Id.GetNum()),
			Name:     getStringValue(point.Payload, "name"),
			Distance: point.Score,
		})
	}
	return matches
}

// Helper functions for payload extraction.
func getStringValue(payload map[string]*pb.Value, key string) string {
	if v, ok := payload[key]; ok {
		return v.GetStringValue()
	}
	return ""
}
