package mongostore

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/mmynk/settleup/internal/models"
	"github.com/mmynk/settleup/internal/storage"
)

// CreateGroup persists a new group and its initial members in one transaction.
func (s *Store) CreateGroup(ctx context.Context, group *models.Group, members []*models.Member) error {
	if group.ID == "" {
		group.ID = uuid.New().String()
	}
	if group.CreatedAt == 0 {
		group.CreatedAt = time.Now().UnixMilli()
	}
	for _, m := range members {
		m.GroupID = group.ID
		fillMember(m)
	}

	return s.withTx(ctx, func(sc mongo.SessionContext) error {
		if _, err := s.col(colGroups).InsertOne(sc, toGroupDoc(group)); err != nil {
			if mongo.IsDuplicateKeyError(err) {
				return fmt.Errorf("invite code %s: %w", group.InviteCode, storage.ErrConflict)
			}
			return fmt.Errorf("failed to insert group: %w", err)
		}
		if len(members) == 0 {
			return nil
		}
		docs := make([]interface{}, len(members))
		for i, m := range members {
			docs[i] = toMemberDoc(m)
		}
		if _, err := s.col(colMembers).InsertMany(sc, docs); err != nil {
			return fmt.Errorf("failed to insert members: %w", err)
		}
		return nil
	})
}

// GetGroup retrieves a group by ID.
func (s *Store) GetGroup(ctx context.Context, groupID string) (*models.Group, error) {
	var doc groupDoc
	if err := s.findOne(ctx, colGroups, bson.M{"_id": groupID}, &doc, "group "+groupID); err != nil {
		return nil, err
	}
	return doc.model(), nil
}

// GetGroupByInviteCode retrieves a group by its invite code.
func (s *Store) GetGroupByInviteCode(ctx context.Context, code string) (*models.Group, error) {
	var doc groupDoc
	if err := s.findOne(ctx, colGroups, bson.M{"inviteCode": code}, &doc, "group "+code); err != nil {
		return nil, err
	}
	return doc.model(), nil
}

// ListGroupsForUser retrieves the groups where the user holds an active member.
func (s *Store) ListGroupsForUser(ctx context.Context, userID string) ([]*models.GroupMembership, error) {
	members, err := findAll[memberDoc](ctx, s.col(colMembers), bson.M{"userId": userID, "archived": false}, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list memberships: %w", err)
	}
	if len(members) == 0 {
		return nil, nil
	}

	memberByGroup := make(map[string]string, len(members))
	groupIDs := make([]string, 0, len(members))
	for _, m := range members {
		memberByGroup[m.GroupID] = m.ID
		groupIDs = append(groupIDs, m.GroupID)
	}

	groups, err := findAll[groupDoc](ctx, s.col(colGroups),
		bson.M{"_id": bson.M{"$in": groupIDs}},
		bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups for user: %w", err)
	}

	memberships := make([]*models.GroupMembership, 0, len(groups))
	for _, g := range groups {
		memberships = append(memberships, &models.GroupMembership{Group: g.model(), MemberID: memberByGroup[g.ID]})
	}
	return memberships, nil
}
