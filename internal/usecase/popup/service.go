package popup

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kkalanta/CreateWebMapsWithPopups/internal/domain"
	"github.com/kkalanta/CreateWebMapsWithPopups/internal/domain/field"
	"github.com/kkalanta/CreateWebMapsWithPopups/internal/domain/layer"
	dompopup "github.com/kkalanta/CreateWebMapsWithPopups/internal/domain/popup"
	"github.com/kkalanta/CreateWebMapsWithPopups/internal/domain/webmap"
	logpkg "github.com/kkalanta/CreateWebMapsWithPopups/internal/logger"
	"github.com/kkalanta/CreateWebMapsWithPopups/internal/metrics"
)

// Result describes the popup synthesized for one map layer.
type Result struct {
	Layer     string
	Kind      layer.Kind
	Unmatched []*domain.SchemaMismatchError
}

// Synthesizer builds popups for the operational layers of a web map.
type Synthesizer struct {
	resolver SchemaResolver
	excluded dompopup.Exclusions
	logger   *zap.Logger
}

// New creates a popup synthesizer. excluded lists the fields left out of
// descriptions; nil selects the default system fields.
func New(resolver SchemaResolver, excluded []string, logger *zap.Logger) *Synthesizer {
	return &Synthesizer{
		resolver: resolver,
		excluded: dompopup.NewExclusions(excluded),
		logger:   logger,
	}
}

// SynthesizeAll builds popups for layerNames in order. The first failure
// aborts the run; layers already processed keep their popups.
func (s *Synthesizer) SynthesizeAll(
	ctx context.Context,
	doc *webmap.Document,
	collectionName, itemType string,
	layerNames []string,
) ([]Result, error) {
	if len(layerNames) == 0 {
		logpkg.FromContextOr(ctx, s.logger).Info("No popup was defined for layers")
		return nil, nil
	}

	results := make([]Result, 0, len(layerNames))
	for _, name := range layerNames {
		res, err := s.Synthesize(ctx, doc, collectionName, itemType, name)
		if err != nil {
			return results, fmt.Errorf("popup for %q: %w", name, err)
		}
		results = append(results, res)
	}
	return results, nil
}

// Synthesize builds the popup of one layer. The operational layer is edited
// on a copy and installed into doc only when every step succeeds.
func (s *Synthesizer) Synthesize(
	ctx context.Context,
	doc *webmap.Document,
	collectionName, itemType, layerName string,
) (Result, error) {
	res, err := s.synthesize(ctx, doc, collectionName, itemType, layerName)
	if err != nil {
		metrics.PopupSynthesisTotal.WithLabelValues(kindLabel(res.Kind), "error").Inc()
		return res, err
	}
	metrics.PopupSynthesisTotal.WithLabelValues(kindLabel(res.Kind), "ok").Inc()
	metrics.PopupUnmatchedFieldsTotal.Add(float64(len(res.Unmatched)))

	log := logpkg.FromContextOr(ctx, s.logger)
	for _, u := range res.Unmatched {
		log.Warn("Popup field has no schema field", zap.String("layer", layerName), zap.String("field", u.FieldName))
	}
	log.Info("Customized popup",
		zap.String("layer", layerName),
		zap.Stringer("kind", res.Kind),
		zap.Int("unmatched_fields", len(res.Unmatched)),
	)
	return res, nil
}

func (s *Synthesizer) synthesize(
	ctx context.Context,
	doc *webmap.Document,
	collectionName, itemType, layerName string,
) (Result, error) {
	res := Result{Layer: layerName}

	// Located
	index, err := doc.FindOperationalLayer(layerName)
	if err != nil {
		return res, fmt.Errorf("locate operational layer: %w", err)
	}
	schema, err := s.resolver.Resolve(ctx, collectionName, itemType, layerName)
	if err != nil {
		return res, fmt.Errorf("resolve schema: %w", err)
	}
	res.Kind = schema.Kind()

	// PopupResolved
	ol := doc.OperationalLayers[index].Clone()
	if ol.PopupInfo.IsEmpty() {
		source := schema.Layer().PopupInfo
		if source.IsEmpty() {
			return res, domain.NewInvariantViolation(layerName,
				fmt.Sprintf("%s layer has no default popupInfo to copy", schema.Kind()))
		}
		ol.PopupInfo = source.Clone()
	}

	// DescriptionSet
	ol.PopupInfo.Title = layerName
	ol.PopupInfo.Description = dompopup.BuildDescription(ol.PopupInfo, itemType, s.excluded)

	// FieldsFormatted
	res.Unmatched = FormatFields(ol.PopupInfo, schema.Layer().Fields, layerName)

	doc.OperationalLayers[index] = ol
	return res, nil
}

// FormatFields sets the numeric display format of every field info from the
// schema field of the same name. All schema fields sharing a name are applied.
// Field infos without a schema counterpart are returned and left untouched.
// Applying it twice yields the same formats.
func FormatFields(info *dompopup.Info, fields []field.Field, layerName string) []*domain.SchemaMismatchError {
	var unmatched []*domain.SchemaMismatchError
	for i := range info.FieldInfos {
		fi := &info.FieldInfos[i]
		matched := false
		for _, f := range fields {
			if fi.FieldName != f.Name {
				continue
			}
			matched = true
			if format, ok := field.FormatFor(f.Type); ok {
				fi.Format = &format
			}
		}
		if !matched {
			unmatched = append(unmatched, &domain.SchemaMismatchError{Layer: layerName, FieldName: fi.FieldName})
		}
	}
	return unmatched
}

func kindLabel(k layer.Kind) string {
	if k == 0 {
		return "unknown"
	}
	return k.String()
}
