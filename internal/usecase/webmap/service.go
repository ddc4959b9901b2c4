package webmap

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/kkalanta/CreateWebMapsWithPopups/internal/domain"
	"github.com/kkalanta/CreateWebMapsWithPopups/internal/domain/item"
	domwebmap "github.com/kkalanta/CreateWebMapsWithPopups/internal/domain/webmap"
	logpkg "github.com/kkalanta/CreateWebMapsWithPopups/internal/logger"
	popupuc "github.com/kkalanta/CreateWebMapsWithPopups/internal/usecase/popup"
)

// Request describes one web map to create.
type Request struct {
	Project    string
	LayerNames []string
	Tags       []string
}

// Result is the outcome of a successful workflow run.
type Result struct {
	WebMapID string
	Popups   []popupuc.Result
}

// Service runs the create-web-map workflow.
type Service struct {
	portal   Portal
	popups   PopupSynthesizer
	itemType string
	logger   *zap.Logger
}

// New creates a workflow service. itemType is the portal type of project collections.
func New(portal Portal, popups PopupSynthesizer, itemType string, logger *zap.Logger) *Service {
	if itemType == "" {
		itemType = item.FeatureLayer
	}
	return &Service{portal: portal, popups: popups, itemType: itemType, logger: logger}
}

// Create publishes the project's collection properties, builds a web map over
// its layers with popups for req.LayerNames and saves it. Nothing is saved
// when any step fails.
func (s *Service) Create(ctx context.Context, req Request) (Result, error) {
	if err := req.validate(); err != nil {
		return Result{}, err
	}
	log := logpkg.FromContextOr(ctx, s.logger).With(zap.String("project", req.Project))
	collectionName := item.CollectionName(req.Project)

	col, err := s.portal.FindCollection(ctx, collectionName, s.itemType)
	if err != nil {
		return Result{}, fmt.Errorf("find collection: %w", err)
	}

	if err := s.portal.UpdateItem(ctx, col.ItemID, item.ForProject(req.Project, s.itemType, req.Tags)); err != nil {
		return Result{}, fmt.Errorf("update collection properties: %w", err)
	}
	if err := s.portal.ProtectItem(ctx, col.ItemID); err != nil {
		return Result{}, fmt.Errorf("protect collection: %w", err)
	}
	log.Info("Protected portal item from deletion", zap.String("title", col.Title))
	if err := s.portal.ShareWithOrg(ctx, col.ItemID); err != nil {
		return Result{}, fmt.Errorf("share collection: %w", err)
	}
	log.Info("Shared portal item in organization", zap.String("title", col.Title))

	data, err := s.portal.CollectionData(ctx, col.ItemID)
	if err != nil {
		return Result{}, fmt.Errorf("get collection data: %w", err)
	}

	doc := domwebmap.New()
	doc.AddCollection(col, data.IsEmpty())
	log.Info("Added collection to web map", zap.String("title", col.Title), zap.Int("layers", len(col.Layers)))

	popups, err := s.popups.SynthesizeAll(ctx, doc, collectionName, s.itemType, req.LayerNames)
	if err != nil {
		return Result{}, fmt.Errorf("create popups: %w", err)
	}

	id, err := s.portal.SaveWebMap(ctx, doc, item.ForProject(req.Project, item.WebMap, req.Tags))
	if err != nil {
		return Result{}, fmt.Errorf("save web map: %w", err)
	}
	log.Info("Saved web map", zap.String("id", id))

	return Result{WebMapID: id, Popups: popups}, nil
}

func (r Request) validate() error {
	if strings.TrimSpace(r.Project) == "" {
		return fmt.Errorf("project name is required: %w", domain.ErrInvalidArgument)
	}
	for i, name := range r.LayerNames {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("layer name %d is empty: %w", i, domain.ErrInvalidArgument)
		}
	}
	return nil
}
