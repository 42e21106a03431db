package engine

import (
	"encoding/json"
	"testing"

	"hospital-admin/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

// =============================================================================
// Patient Lifecycle Test Suite
// =============================================================================

type PatientLifecycleSuite struct {
	suite.Suite
	engine   *Engine
	observer *recordingObserver
	record   *entity.PatientRecord
}

func TestPatientLifecycleSuite(t *testing.T) {
	suite.Run(t, new(PatientLifecycleSuite))
}

func (s *PatientLifecycleSuite) SetupTest() {
	registry, err := NewRegistry(DefaultTable())
	s.Require().NoError(err)
	s.observer = &recordingObserver{}
	s.engine = New(registry, WithObserver(s.observer))

	owner := uuid.New()
	days := 3
	daily := decimal.NewFromInt(150)
	s.record = &entity.PatientRecord{
		ID:      uuid.New(),
		OwnerID: &owner,
		Identity: entity.IdentityGroup{
			FullName: "Amina Benali",
			Gender:   "F",
		},
		Clinical: entity.ClinicalGroup{
			BloodGroup: "A+",
		},
		Administrative: entity.AdministrativeGroup{
			PaymentType:       "insurance",
			EstimatedStayDays: &days,
			DailyCost:         &daily,
		},
		Version: 4,
	}
}

func (s *PatientLifecycleSuite) patch(values map[Target]string) PatientPatch {
	p := PatientPatch{}
	for g, raw := range values {
		p[g] = json.RawMessage(raw)
	}
	return p
}

func (s *PatientLifecycleSuite) discharged() *entity.PatientRecord {
	rec, err := clonePatient(s.record)
	s.Require().NoError(err)
	rec.Discharge.DischargeConfirmed = true
	rec.Discharge.FinalDiagnosis = "Community-acquired pneumonia"
	return rec
}

// =============================================================================
// Status derivation
// =============================================================================

func (s *PatientLifecycleSuite) TestStatusDerivation() {
	s.Run("populated discharge without confirmation is ongoing", func() {
		rec, err := clonePatient(s.record)
		s.Require().NoError(err)
		rec.Discharge = entity.DischargeGroup{
			FinalDiagnosis:      "Appendicitis",
			StaySummary:         "Uneventful recovery",
			PatientInstructions: "Rest",
			Documents:           entity.DischargeDocuments{Summary: true, Prescription: true},
		}
		s.Equal(entity.PatientStatusOngoing, rec.Status())
	})

	s.Run("confirmation alone makes it discharged", func() {
		s.Equal(entity.PatientStatusDischarged, s.discharged().Status())
	})

	s.Run("status follows the flag after an update", func() {
		next, err := s.engine.ApplyPatientUpdate(actorFor(entity.RolePhysician), s.record,
			s.patch(map[Target]string{GroupDischarge: `{"discharge_confirmed": true, "final_diagnosis": "Flu"}`}))
		s.Require().NoError(err)
		s.Equal(entity.PatientStatusDischarged, next.Status())
		s.Contains(s.observer.transitions, [2]string{"ongoing", "discharged"})
	})
}

// =============================================================================
// Authorization of patches
// =============================================================================

func (s *PatientLifecycleSuite) TestPartialWriteAtomicity() {
	before, err := clonePatient(s.record)
	s.Require().NoError(err)

	next, err := s.engine.ApplyPatientUpdate(actorFor(entity.RoleNurse), s.record, s.patch(map[Target]string{
		GroupClinical:       `{"blood_group": "O-"}`,
		GroupAdministrative: `{"payment_type": "self_pay"}`,
	}))

	s.Nil(next)
	var forbidden *ForbiddenError
	s.Require().ErrorAs(err, &forbidden)
	s.Equal(GroupAdministrative, forbidden.Target)
	s.Equal(ResourcePatientRecord, forbidden.Resource)
	s.Equal("A+", s.record.Clinical.BloodGroup)
	s.Equal(before, s.record)
}

func (s *PatientLifecycleSuite) TestSelfScopeOnWrite() {
	stranger := actorFor(entity.RolePatient)

	_, err := s.engine.ApplyPatientUpdate(stranger, s.record, s.patch(map[Target]string{
		GroupIdentity: `{"phone": "0555 00 00 00"}`,
	}))
	var notOwner *NotOwnerError
	s.ErrorAs(err, &notOwner)

	owner := entity.Actor{ID: *s.record.OwnerID, Role: entity.RolePatient}
	_, err = s.engine.ApplyPatientUpdate(owner, s.record, s.patch(map[Target]string{
		GroupIdentity: `{"phone": "0555 00 00 00"}`,
	}))
	var forbidden *ForbiddenError
	s.ErrorAs(err, &forbidden)
}

func (s *PatientLifecycleSuite) TestReceptionistUpdatesBilling() {
	next, err := s.engine.ApplyPatientUpdate(actorFor(entity.RoleReceptionist), s.record, s.patch(map[Target]string{
		GroupAdministrative: `{"estimated_stay_days": 5, "daily_cost": "200.50", "total_cost": "1"}`,
	}))
	s.Require().NoError(err)

	s.Require().NotNil(next.Administrative.TotalCost)
	s.True(decimal.RequireFromString("1002.5").Equal(*next.Administrative.TotalCost))
	s.Equal("insurance", next.Administrative.PaymentType)
	s.Equal(s.record.Version, next.Version)
	s.Equal(s.record.ID, next.ID)
}

// =============================================================================
// Derived total cost
// =============================================================================

func (s *PatientLifecycleSuite) TestTotalCostIsDerived() {
	s.Run("caller supplied value is ignored", func() {
		next, err := s.engine.ApplyPatientUpdate(actorFor(entity.RoleAdministrator), s.record, s.patch(map[Target]string{
			GroupAdministrative: `{"total_cost": "99999"}`,
		}))
		s.Require().NoError(err)
		s.Require().NotNil(next.Administrative.TotalCost)
		s.True(decimal.NewFromInt(450).Equal(*next.Administrative.TotalCost))
	})

	s.Run("missing operand leaves it unset", func() {
		next, err := s.engine.ApplyPatientUpdate(actorFor(entity.RoleAdministrator), s.record, s.patch(map[Target]string{
			GroupAdministrative: `{"daily_cost": null, "total_cost": "10"}`,
		}))
		s.Require().NoError(err)
		s.Nil(next.Administrative.DailyCost)
		s.Nil(next.Administrative.TotalCost)
	})
}

// =============================================================================
// Discharge guard
// =============================================================================

func (s *PatientLifecycleSuite) TestUndischargeGuard() {
	undo := s.patch(map[Target]string{GroupDischarge: `{"discharge_confirmed": false}`})

	s.Run("physician cannot reopen a discharged record", func() {
		_, err := s.engine.ApplyPatientUpdate(actorFor(entity.RolePhysician), s.discharged(), undo)
		var illegal *IllegalTransitionError
		s.Require().ErrorAs(err, &illegal)
		s.Equal("discharged", illegal.From)
		s.Equal("ongoing", illegal.To)
		s.ErrorIs(err, ErrIllegalTransition)
	})

	s.Run("nurse cannot either", func() {
		_, err := s.engine.ApplyPatientUpdate(actorFor(entity.RoleNurse), s.discharged(), undo)
		s.ErrorIs(err, ErrIllegalTransition)
	})

	s.Run("administrator may correct an erroneous discharge", func() {
		next, err := s.engine.ApplyPatientUpdate(actorFor(entity.RoleAdministrator), s.discharged(), undo)
		s.Require().NoError(err)
		s.Equal(entity.PatientStatusOngoing, next.Status())
		s.Equal("Community-acquired pneumonia", next.Discharge.FinalDiagnosis)
	})

	s.Run("other edits on a discharged record keep it discharged", func() {
		next, err := s.engine.ApplyPatientUpdate(actorFor(entity.RolePhysician), s.discharged(), s.patch(map[Target]string{
			GroupDischarge: `{"stay_summary": "Discharged home"}`,
		}))
		s.Require().NoError(err)
		s.True(next.IsDischarged())
	})
}

// =============================================================================
// Idempotence and patch validation
// =============================================================================

func (s *PatientLifecycleSuite) TestIdempotence() {
	patch := s.patch(map[Target]string{
		GroupClinical:  `{"blood_group": "B+", "allergies": {"medication": ["penicillin"]}}`,
		GroupDischarge: `{"discharge_confirmed": true}`,
	})
	actor := actorFor(entity.RolePhysician)

	first, err := s.engine.ApplyPatientUpdate(actor, s.record, patch)
	s.Require().NoError(err)
	second, err := s.engine.ApplyPatientUpdate(actor, first, patch)
	s.Require().NoError(err)

	s.Equal(first, second)
}

func (s *PatientLifecycleSuite) TestPatchValidation() {
	admin := actorFor(entity.RoleAdministrator)

	s.Run("unknown group", func() {
		_, err := s.engine.ApplyPatientUpdate(admin, s.record, s.patch(map[Target]string{"billing": `{}`}))
		var invalidErr *ValidationError
		s.Require().ErrorAs(err, &invalidErr)
		s.Equal("billing", invalidErr.Field)
	})

	s.Run("unknown field", func() {
		_, err := s.engine.ApplyPatientUpdate(admin, s.record, s.patch(map[Target]string{GroupClinical: `{"shoe_size": 42}`}))
		var invalidErr *ValidationError
		s.Require().ErrorAs(err, &invalidErr)
		s.Equal("clinical.shoe_size", invalidErr.Field)
	})

	s.Run("wrong type", func() {
		_, err := s.engine.ApplyPatientUpdate(admin, s.record, s.patch(map[Target]string{GroupClinical: `{"height_cm": "tall"}`}))
		var invalidErr *ValidationError
		s.Require().ErrorAs(err, &invalidErr)
		s.Equal("clinical.height_cm", invalidErr.Field)
		s.Equal("has an invalid value", invalidErr.Message)
	})

	s.Run("malformed timestamp names the field", func() {
		_, err := s.engine.ApplyPatientUpdate(admin, s.record, s.patch(map[Target]string{GroupAdmission: `{"admitted_at": "2024-01-01"}`}))
		var invalidErr *ValidationError
		s.Require().ErrorAs(err, &invalidErr)
		s.Equal("admission.admitted_at", invalidErr.Field)
		s.Equal("has an invalid value", invalidErr.Message)
		s.NotContains(err.Error(), "parsing time")
	})

	s.Run("group must be an object", func() {
		_, err := s.engine.ApplyPatientUpdate(admin, s.record, s.patch(map[Target]string{GroupClinical: `[1,2]`}))
		s.ErrorIs(err, ErrValidation)
	})

	s.Run("empty patch", func() {
		_, err := s.engine.ApplyPatientUpdate(admin, s.record, PatientPatch{})
		s.ErrorIs(err, ErrValidation)
	})

	s.Run("nil record", func() {
		_, err := s.engine.ApplyPatientUpdate(admin, nil, s.patch(map[Target]string{GroupClinical: `{}`}))
		s.ErrorIs(err, ErrValidation)
	})

	s.Run("null resets a field", func() {
		next, err := s.engine.ApplyPatientUpdate(admin, s.record, s.patch(map[Target]string{GroupIdentity: `{"gender": null}`}))
		s.Require().NoError(err)
		s.Empty(next.Identity.Gender)
		s.Equal("Amina Benali", next.Identity.FullName)
	})
}

// =============================================================================
// Intake
// =============================================================================

func (s *PatientLifecycleSuite) TestAdmitPatient() {
	owner := uuid.New()

	s.Run("nurse admits with identity and clinical data", func() {
		rec, err := s.engine.AdmitPatient(actorFor(entity.RoleNurse), &owner, s.patch(map[Target]string{
			GroupIdentity:  `{"full_name": "Yacine Haddad"}`,
			GroupClinical:  `{"blood_group": "O+"}`,
			GroupAdmission: `{"admission_type": "emergency", "room": "12B"}`,
		}))
		s.Require().NoError(err)
		s.Equal(entity.PatientStatusOngoing, rec.Status())
		s.Equal(uuid.Nil, rec.ID)
		s.Equal(owner, *rec.OwnerID)
		s.Equal("12B", rec.Admission.Room)
		s.Contains(s.observer.transitions, [2]string{StateIntake, "ongoing"})
	})

	s.Run("receptionist cannot supply clinical data", func() {
		_, err := s.engine.AdmitPatient(actorFor(entity.RoleReceptionist), &owner, s.patch(map[Target]string{
			GroupIdentity: `{"full_name": "Yacine Haddad"}`,
			GroupClinical: `{"blood_group": "O+"}`,
		}))
		var forbidden *ForbiddenError
		s.Require().ErrorAs(err, &forbidden)
		s.Equal(GroupClinical, forbidden.Target)
	})

	s.Run("physician cannot admit", func() {
		_, err := s.engine.AdmitPatient(actorFor(entity.RolePhysician), &owner, s.patch(map[Target]string{
			GroupIdentity: `{"full_name": "Yacine Haddad"}`,
		}))
		var forbidden *ForbiddenError
		s.Require().ErrorAs(err, &forbidden)
		s.Equal(ActionCreate, forbidden.Target)
	})

	s.Run("discharge data is refused at intake", func() {
		_, err := s.engine.AdmitPatient(actorFor(entity.RoleAdministrator), &owner, s.patch(map[Target]string{
			GroupIdentity:  `{"full_name": "Yacine Haddad"}`,
			GroupDischarge: `{"discharge_confirmed": true}`,
		}))
		var invalidErr *ValidationError
		s.Require().ErrorAs(err, &invalidErr)
		s.Equal("discharge", invalidErr.Field)
	})

	s.Run("name is required", func() {
		_, err := s.engine.AdmitPatient(actorFor(entity.RoleReceptionist), nil, s.patch(map[Target]string{
			GroupAdmission: `{"service": "cardiology"}`,
		}))
		var invalidErr *ValidationError
		s.Require().ErrorAs(err, &invalidErr)
		s.Equal("identity.full_name", invalidErr.Field)
	})

	s.Run("total cost derived at intake", func() {
		rec, err := s.engine.AdmitPatient(actorFor(entity.RoleReceptionist), nil, s.patch(map[Target]string{
			GroupIdentity:       `{"full_name": "Yacine Haddad"}`,
			GroupAdministrative: `{"estimated_stay_days": 2, "daily_cost": 80}`,
		}))
		s.Require().NoError(err)
		s.Require().NotNil(rec.Administrative.TotalCost)
		s.Equal("160", rec.Administrative.TotalCost.String())
	})
}

func (s *PatientLifecycleSuite) TestCanDeletePatient() {
	s.NoError(s.engine.CanDeletePatient(actorFor(entity.RoleAdministrator), s.record))
	s.ErrorIs(s.engine.CanDeletePatient(actorFor(entity.RolePhysician), s.record), ErrForbidden)
	s.ErrorIs(s.engine.CanDeletePatient(actorFor(entity.RoleReceptionist), s.record), ErrForbidden)
}
