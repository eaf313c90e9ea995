package mapper

import (
	"strconv"

	"github.com/strideflow/strideflow/internal/convert"
	"github.com/strideflow/strideflow/internal/models"
	"github.com/strideflow/strideflow/internal/provider"
)

// Activity normalizes one raw activity entry. Distance comes in meters and
// leaves in kilometers; speeds come in m/s and leave in km/h. The metadata
// fields (heart rates, steps, training scores) are optional; everything else
// is required and a missing field fails the single activity.
func Activity(p provider.ActivityPayload) (*models.Activity, error) {
	if p.ActivityID == nil {
		return nil, missingField("", "activityId")
	}
	id := strconv.FormatInt(*p.ActivityID, 10)

	if p.StartTimeLocal == nil {
		return nil, missingField(id, "startTimeLocal")
	}
	start, ok := convert.ParseTimestamp(*p.StartTimeLocal)
	if !ok {
		return nil, missingField(id, "startTimeLocal")
	}
	if p.ActivityType == nil || p.ActivityType.TypeKey == nil {
		return nil, missingField(id, "activityType.typeKey")
	}
	if p.Distance == nil {
		return nil, missingField(id, "distance")
	}
	if p.Duration == nil {
		return nil, missingField(id, "duration")
	}
	if p.AverageSpeed == nil {
		return nil, missingField(id, "averageSpeed")
	}
	if p.MaxSpeed == nil {
		return nil, missingField(id, "maxSpeed")
	}
	if p.Calories == nil {
		return nil, missingField(id, "calories")
	}

	a := &models.Activity{
		ActivityID:  id,
		StartTime:   start,
		Sport:       *p.ActivityType.TypeKey,
		Distance:    round2(*p.Distance / 1000),
		ElapsedTime: convert.SecondsToDuration(*p.Duration),
		AvgSpeed:    round2(*p.AverageSpeed * 3.6),
		MaxSpeed:    round2(*p.MaxSpeed * 3.6),
		Calories:    int(*p.Calories),
	}
	if p.LocationName != nil {
		a.LocationName = *p.LocationName
	}
	if p.AverageHR != nil {
		v := int(*p.AverageHR)
		a.AvgHR = &v
	}
	if p.MaxHR != nil {
		v := int(*p.MaxHR)
		a.MaxHR = &v
	}
	a.Steps = p.Steps
	if p.AerobicTrainingEffect != nil {
		a.TrainingEffect = round2(*p.AerobicTrainingEffect)
	}
	if p.ActivityTrainingLoad != nil {
		a.TrainingLoad = round2(*p.ActivityTrainingLoad)
	}
	if p.VO2MaxValue != nil {
		a.VO2Max = round2(*p.VO2MaxValue)
	}
	return a, nil
}
