package application

import (
	"context"
	"time"

	"github.com/logistics-platform/shipment-engine/internal/domain"
	"github.com/logistics-platform/shipment-engine/pkg/errors"
	"github.com/logistics-platform/shipment-engine/pkg/logging"
	"github.com/logistics-platform/shipment-engine/pkg/metrics"
	"github.com/logistics-platform/shipment-engine/pkg/middleware"
)

// PricingResolver resolves the effective rate table for a brand and
// shipment type. Resolution never fails.
type PricingResolver interface {
	Resolve(ctx context.Context, brandID string, shipmentType domain.ShipmentType) domain.PricingConfig
}

// ShipmentService orchestrates the shipment economics pipeline:
// classification, payer assignment, pricing, cost, insurance, courier
// integration and event emission.
type ShipmentService struct {
	parties   domain.PartyDirectory
	resolver  PricingResolver
	gateway   domain.CourierGateway
	shipments domain.ShipmentStore
	weights   domain.WeightEstimator
	remote    domain.RemoteAreaChecker
	publisher domain.EventPublisher
	logger    *logging.Logger
	metrics   *metrics.Metrics
}

// NewShipmentService creates a new ShipmentService
func NewShipmentService(
	parties domain.PartyDirectory,
	resolver PricingResolver,
	gateway domain.CourierGateway,
	shipments domain.ShipmentStore,
	weights domain.WeightEstimator,
	remote domain.RemoteAreaChecker,
	publisher domain.EventPublisher,
	logger *logging.Logger,
	m *metrics.Metrics,
) *ShipmentService {
	return &ShipmentService{
		parties:   parties,
		resolver:  resolver,
		gateway:   gateway,
		shipments: shipments,
		weights:   weights,
		remote:    remote,
		publisher: publisher,
		logger:    logger.WithComponent("shipment-service"),
		metrics:   m,
	}
}

// CreateShipment runs the full pipeline for one shipment. It never
// returns an error: any failure yields a well-formed result with
// Success false, zeroed sub-objects and a populated Error.
func (s *ShipmentService) CreateShipment(ctx context.Context, cmd CreateShipmentCommand) (result *ShipmentResultDTO) {
	log := s.logger.WithShipment(cmd.ShipmentID)

	defer func() {
		if r := recover(); r != nil {
			log.Panic(ctx, r)
			result = s.failure(cmd.ShipmentID, "internal error while creating shipment")
		}
	}()

	if err := middleware.ValidateStruct(cmd); err != nil {
		return s.failure(cmd.ShipmentID, err.Error())
	}

	sender, err := s.parties.GetParty(ctx, cmd.SenderID)
	if err != nil {
		log.WithError(err).Error("Sender lookup failed")
		return s.failure(cmd.ShipmentID, "failed to resolve sender "+cmd.SenderID)
	}
	if sender == nil {
		return s.failure(cmd.ShipmentID, "unknown sender "+cmd.SenderID)
	}

	receiver, err := s.parties.GetParty(ctx, cmd.ReceiverID)
	if err != nil {
		log.WithError(err).Error("Receiver lookup failed")
		return s.failure(cmd.ShipmentID, "failed to resolve receiver "+cmd.ReceiverID)
	}
	if receiver == nil {
		return s.failure(cmd.ShipmentID, "unknown receiver "+cmd.ReceiverID)
	}

	classification := domain.Classify(sender.Role, receiver.Role, domain.ReturnReason(cmd.ReturnReason))
	if classification.Defaulted {
		log.Anomaly(ctx, "classification", map[string]any{
			"senderRole":   sender.Role,
			"receiverRole": receiver.Role,
		})
	}
	payer := domain.AssignPayer(classification)

	pricingCfg := s.resolver.Resolve(ctx, s.brandID(sender, receiver), classification.Type)

	weight := cmd.WeightKg
	if weight <= 0 {
		weight = s.weights.EstimateWeight(ctx, cmd.NumBoxes)
	}

	costInput := domain.CostInput{
		NumBoxes:          cmd.NumBoxes,
		TotalWeightKg:     weight,
		Express:           domain.Priority(cmd.Priority).IsExpress(),
		RemoteArea:        s.remote.IsRemoteArea(ctx, receiver.Pincode),
		DeclaredValue:     cmd.DeclaredValue,
		InsuranceRequired: cmd.InsuranceRequired || cmd.DeclaredValue >= domain.InsuranceThreshold,
	}
	breakdown := domain.ComputeCost(pricingCfg, costInput)
	insurance := domain.ComputeInsurance(cmd.DeclaredValue)

	if s.metrics != nil {
		s.metrics.ObserveShipmentCreated(string(classification.Type), string(payer.Payer))
	}

	result = &ShipmentResultDTO{
		Success:        true,
		ShipmentID:     cmd.ShipmentID,
		Classification: ToClassificationDTO(classification),
		Payer:          ToPayerDTO(payer),
		Cost:           ToCostDTO(breakdown),
		Insurance:      ToInsuranceDTO(insurance),
	}

	s.publish(ctx, &domain.ShipmentPricedEvent{
		ShipmentID:    cmd.ShipmentID,
		ShipmentType:  string(classification.Type),
		Payer:         string(payer.Payer),
		TotalCost:     breakdown.TotalCost,
		PricingSource: breakdown.PricingSource,
		PricedAt:      time.Now(),
	})

	awb := s.gateway.GenerateAwb(ctx, domain.AwbRequest{
		ShipmentID:    cmd.ShipmentID,
		RecipientName: receiver.Name,
		Phone:         receiver.Phone,
		Address:       receiver.Address,
		City:          receiver.City,
		State:         receiver.State,
		Pincode:       receiver.Pincode,
		NumBoxes:      cmd.NumBoxes,
		WeightKg:      weight,
		DeclaredValue: cmd.DeclaredValue,
		Express:       costInput.Express,
		Description:   cmd.Description,
	})
	result.Awb = ToAwbDTO(awb)

	var label *domain.LabelResult
	if awb.Success {
		label = s.gateway.GenerateLabel(ctx, awb.AwbNumber)
		result.Label = ToLabelDTO(label)
	}

	s.persistCourierOutcome(ctx, cmd.ShipmentID, awb, label, result)
	s.emitCourierEvents(ctx, cmd.ShipmentID, awb)

	log.Info("Shipment created",
		"shipmentType", classification.Type,
		"payer", payer.Payer,
		"totalCost", breakdown.TotalCost,
		"awbNumber", awb.AwbNumber,
		"fallbackMode", awb.FallbackMode,
	)
	return result
}

// brandID returns the brand party's ID when either end of the shipment
// is a brand; pricing overrides are keyed by it
func (s *ShipmentService) brandID(sender, receiver *domain.Party) string {
	if sender.Role == domain.RoleBrand {
		return sender.ID
	}
	if receiver.Role == domain.RoleBrand {
		return receiver.ID
	}
	return ""
}

// persistCourierOutcome patches courier metadata onto the shipment
// record. Persistence failures are surfaced as warnings, never unwound:
// the AWB is already issued.
func (s *ShipmentService) persistCourierOutcome(ctx context.Context, shipmentID string, awb *domain.AwbResult, label *domain.LabelResult, result *ShipmentResultDTO) {
	if !awb.Success {
		return
	}

	patch := domain.ShipmentPatch{
		AwbNumber:    awb.AwbNumber,
		TrackingURL:  awb.TrackingURL,
		FallbackMode: awb.FallbackMode,
	}
	if label != nil && label.Success {
		patch.LabelURL = label.LabelURL
	}

	if err := s.shipments.UpdateShipment(ctx, shipmentID, patch); err != nil {
		s.logger.WithShipment(shipmentID).WithError(err).Error("Failed to persist courier outcome")
		result.Warnings = append(result.Warnings, "courier outcome not persisted: "+err.Error())
	}
}

func (s *ShipmentService) emitCourierEvents(ctx context.Context, shipmentID string, awb *domain.AwbResult) {
	if !awb.Success {
		return
	}

	carrier := "DELHIVERY"
	if awb.FallbackMode {
		carrier = "SYNTHETIC"
		s.publish(ctx, &domain.CourierFallbackEvent{
			ShipmentID: shipmentID,
			Carrier:    carrier,
			Reason:     awb.Error,
			OccurredOn: time.Now(),
		})
	}

	s.publish(ctx, &domain.AwbGeneratedEvent{
		ShipmentID:   shipmentID,
		AwbNumber:    awb.AwbNumber,
		Carrier:      carrier,
		FallbackMode: awb.FallbackMode,
		GeneratedAt:  time.Now(),
	})
}

func (s *ShipmentService) publish(ctx context.Context, event domain.DomainEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.WithError(err).Warn("Failed to publish event", "eventType", event.EventType())
	}
}

func (s *ShipmentService) failure(shipmentID, message string) *ShipmentResultDTO {
	return &ShipmentResultDTO{
		ShipmentID: shipmentID,
		Error:      message,
	}
}

// Classify runs the classifier and payer rules without side effects
func (s *ShipmentService) Classify(cmd ClassifyCommand) (*PricingPreviewDTO, *errors.AppError) {
	if err := middleware.ValidateStruct(cmd); err != nil {
		return nil, err
	}

	classification := domain.Classify(
		domain.PartyRole(cmd.SenderRole),
		domain.PartyRole(cmd.ReceiverRole),
		domain.ReturnReason(cmd.ReturnReason),
	)
	payer := domain.AssignPayer(classification)

	return &PricingPreviewDTO{
		Classification: ToClassificationDTO(classification),
		Payer:          ToPayerDTO(payer),
	}, nil
}

// PreviewPricing computes a cost breakdown without any side effects
func (s *ShipmentService) PreviewPricing(ctx context.Context, cmd PricingPreviewCommand) (*PricingPreviewDTO, *errors.AppError) {
	if err := middleware.ValidateStruct(cmd); err != nil {
		return nil, err
	}

	classification := domain.Classify(
		domain.PartyRole(cmd.SenderRole),
		domain.PartyRole(cmd.ReceiverRole),
		domain.ReturnReason(cmd.ReturnReason),
	)
	payer := domain.AssignPayer(classification)
	pricingCfg := s.resolver.Resolve(ctx, cmd.BrandID, classification.Type)

	weight := cmd.WeightKg
	if weight <= 0 {
		weight = s.weights.EstimateWeight(ctx, cmd.NumBoxes)
	}

	breakdown := domain.ComputeCost(pricingCfg, domain.CostInput{
		NumBoxes:          cmd.NumBoxes,
		TotalWeightKg:     weight,
		Express:           cmd.Express,
		RemoteArea:        cmd.RemoteArea,
		DeclaredValue:     cmd.DeclaredValue,
		InsuranceRequired: cmd.InsuranceRequired || cmd.DeclaredValue >= domain.InsuranceThreshold,
	})

	return &PricingPreviewDTO{
		Classification: ToClassificationDTO(classification),
		Payer:          ToPayerDTO(payer),
		Cost:           ToCostDTO(breakdown),
	}, nil
}

// PriceBulk prices many shipments and aggregates per-payer totals
func (s *ShipmentService) PriceBulk(ctx context.Context, cmd BulkPricingCommand) (*BulkSummaryDTO, *errors.AppError) {
	if err := middleware.ValidateStruct(cmd); err != nil {
		return nil, err
	}

	costs := make([]domain.BulkShipmentCost, 0, len(cmd.Shipments))
	for _, item := range cmd.Shipments {
		preview, err := s.PreviewPricing(ctx, item.Pricing)
		if err != nil {
			return nil, err.WithDetail("shipmentId", item.ShipmentID)
		}
		costs = append(costs, domain.BulkShipmentCost{
			ShipmentID:    item.ShipmentID,
			RecipientName: item.RecipientName,
			Breakdown:     s.toBreakdown(preview.Cost),
			Payer:         domain.PartyRole(preview.Payer.Payer),
		})
	}

	return ToBulkSummaryDTO(domain.Aggregate(costs)), nil
}

// ExportBulkCSV prices many shipments and renders the summary as CSV
func (s *ShipmentService) ExportBulkCSV(ctx context.Context, cmd BulkPricingCommand) (string, *errors.AppError) {
	if err := middleware.ValidateStruct(cmd); err != nil {
		return "", err
	}

	costs := make([]domain.BulkShipmentCost, 0, len(cmd.Shipments))
	for _, item := range cmd.Shipments {
		preview, err := s.PreviewPricing(ctx, item.Pricing)
		if err != nil {
			return "", err.WithDetail("shipmentId", item.ShipmentID)
		}
		costs = append(costs, domain.BulkShipmentCost{
			ShipmentID:    item.ShipmentID,
			RecipientName: item.RecipientName,
			Breakdown:     s.toBreakdown(preview.Cost),
			Payer:         domain.PartyRole(preview.Payer.Payer),
		})
	}

	return domain.Aggregate(costs).ExportCSV(), nil
}

func (s *ShipmentService) toBreakdown(c CostDTO) domain.CostBreakdown {
	return domain.CostBreakdown{
		BaseCost:      c.BaseCost,
		WeightCost:    c.WeightCost,
		SurchargeCost: c.SurchargeCost,
		MarkupCost:    c.MarkupCost,
		InsuranceCost: c.InsuranceCost,
		TotalCost:     c.TotalCost,
		PricingSource: c.PricingSource,
		AppliedRules:  c.AppliedRules,
	}
}

// QuoteInsurance computes a standalone insurance quote
func (s *ShipmentService) QuoteInsurance(query InsuranceQuoteQuery) (*InsuranceDTO, *errors.AppError) {
	if err := middleware.ValidateStruct(query); err != nil {
		return nil, err
	}
	dto := ToInsuranceDTO(domain.ComputeInsurance(query.DeclaredValue))
	return &dto, nil
}

// GenerateAwb issues an AWB for a shipment whose recipient details are
// supplied directly, persisting the outcome and emitting events
func (s *ShipmentService) GenerateAwb(ctx context.Context, cmd GenerateAwbCommand) (*AwbDTO, *errors.AppError) {
	if err := middleware.ValidateStruct(cmd); err != nil {
		return nil, err
	}

	weight := cmd.WeightKg
	if weight <= 0 {
		weight = s.weights.EstimateWeight(ctx, cmd.NumBoxes)
	}

	awb := s.gateway.GenerateAwb(ctx, domain.AwbRequest{
		ShipmentID:    cmd.ShipmentID,
		RecipientName: cmd.RecipientName,
		Phone:         cmd.Phone,
		Address:       cmd.Address,
		City:          cmd.City,
		State:         cmd.State,
		Pincode:       cmd.Pincode,
		NumBoxes:      cmd.NumBoxes,
		WeightKg:      weight,
		DeclaredValue: cmd.DeclaredValue,
		Express:       cmd.Express,
		Description:   cmd.Description,
	})

	if awb.Success {
		patch := domain.ShipmentPatch{
			AwbNumber:    awb.AwbNumber,
			TrackingURL:  awb.TrackingURL,
			FallbackMode: awb.FallbackMode,
		}
		if err := s.shipments.UpdateShipment(ctx, cmd.ShipmentID, patch); err != nil {
			s.logger.WithShipment(cmd.ShipmentID).WithError(err).Error("Failed to persist AWB")
		}
	}
	s.emitCourierEvents(ctx, cmd.ShipmentID, awb)

	return ToAwbDTO(awb), nil
}

// GenerateLabel fetches or produces a label for an issued AWB
func (s *ShipmentService) GenerateLabel(ctx context.Context, awbNumber string) (*LabelDTO, *errors.AppError) {
	if awbNumber == "" {
		return nil, errors.ErrBadRequest("awb number is required")
	}
	return ToLabelDTO(s.gateway.GenerateLabel(ctx, awbNumber)), nil
}

// Track resolves the tracking history for one AWB
func (s *ShipmentService) Track(ctx context.Context, awbNumber string) (*TrackingDTO, *errors.AppError) {
	if awbNumber == "" {
		return nil, errors.ErrBadRequest("awb number is required")
	}
	return ToTrackingDTO(s.gateway.Track(ctx, awbNumber)), nil
}

// TrackBatch resolves tracking for many AWBs; every AWB settles to a
// per-item result
func (s *ShipmentService) TrackBatch(ctx context.Context, query TrackBatchQuery) ([]*TrackingDTO, *errors.AppError) {
	if err := middleware.ValidateStruct(query); err != nil {
		return nil, err
	}

	results := s.gateway.TrackBatch(ctx, query.AwbNumbers)
	dtos := make([]*TrackingDTO, 0, len(results))
	for _, r := range results {
		dtos = append(dtos, ToTrackingDTO(r))
	}
	return dtos, nil
}
