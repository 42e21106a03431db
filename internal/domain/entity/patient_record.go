package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PatientStatus is derived from the discharge confirmation flag and never stored
type PatientStatus string

const (
	PatientStatusOngoing    PatientStatus = "ongoing"
	PatientStatusDischarged PatientStatus = "discharged"
)

// PatientRecord is the single aggregate for a hospital stay.
// Each field-group is persisted as its own jsonb column.
type PatientRecord struct {
	ID             uuid.UUID           `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	OwnerID        *uuid.UUID          `gorm:"type:uuid;index" json:"owner_id,omitempty"`
	Identity       IdentityGroup       `gorm:"type:jsonb;serializer:json;not null" json:"identity"`
	Clinical       ClinicalGroup       `gorm:"type:jsonb;serializer:json;not null" json:"clinical"`
	Admission      AdmissionGroup      `gorm:"type:jsonb;serializer:json;not null" json:"admission"`
	Administrative AdministrativeGroup `gorm:"type:jsonb;serializer:json;not null" json:"administrative"`
	Discharge      DischargeGroup      `gorm:"type:jsonb;serializer:json;not null" json:"discharge"`
	Version        int                 `gorm:"not null;default:1" json:"version"`
	CreatedAt      time.Time           `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time           `gorm:"autoUpdateTime" json:"updated_at"`
}

func (PatientRecord) TableName() string {
	return "patient_records"
}

// Status recomputes the record status from the discharge confirmation flag
func (p *PatientRecord) Status() PatientStatus {
	if p.Discharge.DischargeConfirmed {
		return PatientStatusDischarged
	}
	return PatientStatusOngoing
}

// IsDischarged checks if the stay has been closed
func (p *PatientRecord) IsDischarged() bool {
	return p.Status() == PatientStatusDischarged
}

// OwnedBy reports whether the record belongs to the given patient account
func (p *PatientRecord) OwnedBy(userID uuid.UUID) bool {
	return p.OwnerID != nil && *p.OwnerID == userID
}

// Identity

type IdentityGroup struct {
	FullName         string            `json:"full_name"`
	DateOfBirth      *time.Time        `json:"date_of_birth,omitempty"`
	Gender           string            `json:"gender,omitempty"`
	Nationality      string            `json:"nationality,omitempty"`
	Address          string            `json:"address,omitempty"`
	Phone            string            `json:"phone,omitempty"`
	Email            string            `json:"email,omitempty"`
	MaritalStatus    string            `json:"marital_status,omitempty"`
	EmergencyContact *EmergencyContact `json:"emergency_contact,omitempty"`
	IdentityDocument *IdentityDocument `json:"identity_document,omitempty"`
}

type EmergencyContact struct {
	Name     string `json:"name"`
	Relation string `json:"relation,omitempty"`
	Phone    string `json:"phone,omitempty"`
}

type IdentityDocument struct {
	Type   string `json:"type"`
	Number string `json:"number"`
}

// Clinical

type ClinicalGroup struct {
	BloodGroup        string          `json:"blood_group,omitempty"`
	HeightCm          *float64        `json:"height_cm,omitempty"`
	WeightKg          *float64        `json:"weight_kg,omitempty"`
	Allergies         Allergies       `json:"allergies"`
	AllergyDetails    string          `json:"allergy_details,omitempty"`
	VitalSigns        *VitalSigns     `json:"vital_signs,omitempty"`
	MedicalHistory    MedicalHistory  `json:"medical_history"`
	SurgicalHistory   []SurgeryEntry  `json:"surgical_history,omitempty"`
	CurrentTreatments []TreatmentItem `json:"current_treatments,omitempty"`
}

type Allergies struct {
	Medication    []string `json:"medication,omitempty"`
	Food          []string `json:"food,omitempty"`
	Environmental []string `json:"environmental,omitempty"`
}

type VitalSigns struct {
	TemperatureC     *float64 `json:"temperature_c,omitempty"`
	HeartRate        *int     `json:"heart_rate,omitempty"`
	BloodPressure    string   `json:"blood_pressure,omitempty"`
	RespiratoryRate  *int     `json:"respiratory_rate,omitempty"`
	OxygenSaturation *int     `json:"oxygen_saturation,omitempty"`
}

type MedicalHistory struct {
	Diabetes     bool   `json:"diabetes"`
	Hypertension bool   `json:"hypertension"`
	HeartDisease bool   `json:"heart_disease"`
	Asthma       bool   `json:"asthma"`
	Cancer       bool   `json:"cancer"`
	Other        string `json:"other,omitempty"`
}

type SurgeryEntry struct {
	Procedure string     `json:"procedure"`
	Date      *time.Time `json:"date,omitempty"`
	Notes     string     `json:"notes,omitempty"`
}

type TreatmentItem struct {
	Name      string `json:"name"`
	Dosage    string `json:"dosage,omitempty"`
	Frequency string `json:"frequency,omitempty"`
}

// Admission

type AdmissionGroup struct {
	AdmittedAt          *time.Time     `json:"admitted_at,omitempty"`
	AdmissionType       string         `json:"admission_type,omitempty"`
	Reason              string         `json:"reason,omitempty"`
	Service             string         `json:"service,omitempty"`
	AssignedPhysicianID *uuid.UUID     `json:"assigned_physician_id,omitempty"`
	Room                string         `json:"room,omitempty"`
	Bed                 string         `json:"bed,omitempty"`
	RoomType            string         `json:"room_type,omitempty"`
	Equipment           EquipmentFlags `json:"equipment"`
	Precautions         Precautions    `json:"precautions"`
}

type EquipmentFlags struct {
	Oxygen     bool `json:"oxygen"`
	Monitor    bool `json:"monitor"`
	Wheelchair bool `json:"wheelchair"`
	Ventilator bool `json:"ventilator"`
}

type Precautions struct {
	FallRisk     bool   `json:"fall_risk"`
	Isolation    bool   `json:"isolation"`
	AllergyAlert bool   `json:"allergy_alert"`
	Notes        string `json:"notes,omitempty"`
}

// Administrative

type AdministrativeGroup struct {
	PaymentType       string            `json:"payment_type,omitempty"`
	Insurance         *InsuranceDetails `json:"insurance,omitempty"`
	ProvidedDocuments ProvidedDocuments `json:"provided_documents"`
	EstimatedStayDays *int              `json:"estimated_stay_days,omitempty"`
	DailyCost         *decimal.Decimal  `json:"daily_cost,omitempty"`
	TotalCost         *decimal.Decimal  `json:"total_cost,omitempty"`
	ActualStayDays    *int              `json:"actual_stay_days,omitempty"`
	ActualCost        *decimal.Decimal  `json:"actual_cost,omitempty"`
	PaymentTerms      string            `json:"payment_terms,omitempty"`
	Notes             string            `json:"notes,omitempty"`
}

type InsuranceDetails struct {
	Provider        string           `json:"provider"`
	PolicyNumber    string           `json:"policy_number"`
	CoveragePercent *decimal.Decimal `json:"coverage_percent,omitempty"`
}

type ProvidedDocuments struct {
	IDCard         bool `json:"id_card"`
	InsuranceCard  bool `json:"insurance_card"`
	ReferralLetter bool `json:"referral_letter"`
}

// DeriveTotalCost sets TotalCost to EstimatedStayDays x DailyCost,
// or clears it when either operand is missing.
func (a *AdministrativeGroup) DeriveTotalCost() {
	if a.EstimatedStayDays == nil || a.DailyCost == nil {
		a.TotalCost = nil
		return
	}
	total := a.DailyCost.Mul(decimal.NewFromInt(int64(*a.EstimatedStayDays)))
	a.TotalCost = &total
}

// Discharge

type DischargeGroup struct {
	DischargedAt         *time.Time         `json:"discharged_at,omitempty"`
	FinalDiagnosis       string             `json:"final_diagnosis,omitempty"`
	StaySummary          string             `json:"stay_summary,omitempty"`
	PrescribedTreatments []TreatmentItem    `json:"prescribed_treatments,omitempty"`
	PatientInstructions  string             `json:"patient_instructions,omitempty"`
	FollowUpDate         *time.Time         `json:"follow_up_date,omitempty"`
	FollowUpPhysicianID  *uuid.UUID         `json:"follow_up_physician_id,omitempty"`
	Documents            DischargeDocuments `json:"documents"`
	DischargeConfirmed   bool               `json:"discharge_confirmed"`
}

type DischargeDocuments struct {
	Summary              bool `json:"summary"`
	Prescription         bool `json:"prescription"`
	SickLeaveCertificate bool `json:"sick_leave_certificate"`
}
