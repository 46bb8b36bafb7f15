package mongostore

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/mmynk/settleup/internal/models"
)

func fillMember(m *models.Member) {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	if m.CreatedAt == 0 {
		m.CreatedAt = time.Now().UnixMilli()
	}
}

// CreateMember persists a new member.
func (s *Store) CreateMember(ctx context.Context, member *models.Member) error {
	fillMember(member)
	if _, err := s.col(colMembers).InsertOne(ctx, toMemberDoc(member)); err != nil {
		return fmt.Errorf("failed to insert member: %w", err)
	}
	return nil
}

// GetMember retrieves a member by ID.
func (s *Store) GetMember(ctx context.Context, memberID string) (*models.Member, error) {
	var doc memberDoc
	if err := s.findOne(ctx, colMembers, bson.M{"_id": memberID}, &doc, "member "+memberID); err != nil {
		return nil, err
	}
	return doc.model(), nil
}

// GetMemberByUser retrieves the member linked to a user in a group.
func (s *Store) GetMemberByUser(ctx context.Context, groupID, userID string) (*models.Member, error) {
	var doc memberDoc
	what := fmt.Sprintf("member for user %s in group %s", userID, groupID)
	if err := s.findOne(ctx, colMembers, bson.M{"groupId": groupID, "userId": userID}, &doc, what); err != nil {
		return nil, err
	}
	return doc.model(), nil
}

// ListMembers retrieves all members of a group, archived ones included.
func (s *Store) ListMembers(ctx context.Context, groupID string) ([]*models.Member, error) {
	docs, err := findAll[memberDoc](ctx, s.col(colMembers),
		bson.M{"groupId": groupID},
		bson.D{{Key: "createdAt", Value: 1}, {Key: "displayName", Value: 1}, {Key: "_id", Value: 1}},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	members := make([]*models.Member, len(docs))
	for i, d := range docs {
		members[i] = d.model()
	}
	return members, nil
}

// UpdateMembers writes the mutable fields of every given member in one transaction.
func (s *Store) UpdateMembers(ctx context.Context, members ...*models.Member) error {
	return s.withTx(ctx, func(sc mongo.SessionContext) error {
		for _, m := range members {
			res, err := s.col(colMembers).UpdateOne(sc, bson.M{"_id": m.ID}, bson.M{"$set": bson.M{
				"displayName": m.DisplayName,
				"userId":      m.UserID,
				"claimedAt":   m.ClaimedAt,
				"archived":    m.Archived,
			}})
			if err != nil {
				return fmt.Errorf("failed to update member: %w", err)
			}
			if err := matched(res.MatchedCount, "member "+m.ID); err != nil {
				return err
			}
		}
		return nil
	})
}
