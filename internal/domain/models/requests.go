package models

// Requests for the HTTP endpoints. Defined in domain for consistency and reuse.

type DateRequest struct {
	Date string `query:"date" json:"date" validate:"required,datetime=2006-01-02"`
}

type MonthRequest struct {
	Year  int `query:"year" json:"year" validate:"required,gte=1900,lte=2200"`
	Month int `query:"month" json:"month" validate:"required"`
}

type VegetableRequest struct {
	Name string `query:"name" json:"name" validate:"required"`
}

type TrendRequest struct {
	Vegetable string `query:"vegetable" json:"vegetable" validate:"required"`
	Year      int    `query:"year" json:"year" validate:"required,gte=1900,lte=2200"`
	Month     int    `query:"month" json:"month" validate:"required"`
}

// DemandRequest leaves year/month optional; zero means "month of the latest quote".
type DemandRequest struct {
	Year  int `query:"year" json:"year" validate:"omitempty,gte=1900,lte=2200"`
	Month int `query:"month" json:"month"`
}

type PredictRequest struct {
	Date       string   `json:"date" validate:"required,datetime=2006-01-02"`
	Vegetables []string `json:"vegetables" validate:"required,min=1,max=50,dive,required"`
}

type CropRequest struct {
	N           *float64 `json:"N" validate:"required,gte=0,lte=200"`
	P           *float64 `json:"P" validate:"required,gte=0,lte=200"`
	K           *float64 `json:"K" validate:"required,gte=0,lte=200"`
	Temperature *float64 `json:"temperature" validate:"required,gte=0,lte=50"`
	Humidity    *float64 `json:"humidity" validate:"required,gte=0,lte=100"`
	PH          *float64 `json:"ph" validate:"required,gte=0,lte=14"`
	Rainfall    *float64 `json:"rainfall" validate:"required,gte=0"`
}

// Features converts a validated request into recommender input.
func (r CropRequest) Features() CropFeatures {
	return CropFeatures{
		N:           *r.N,
		P:           *r.P,
		K:           *r.K,
		Temperature: *r.Temperature,
		Humidity:    *r.Humidity,
		PH:          *r.PH,
		Rainfall:    *r.Rainfall,
	}
}
