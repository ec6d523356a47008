package student

import "time"

// Patch is a partial profile update. Nil fields are left unchanged.
// Email, user, school and huddle links are not student-editable and have no field here.
type Patch struct {
	FirstName                    *string   `json:"first_name,omitempty"`
	LastName                     *string   `json:"last_name,omitempty"`
	PreferredName                *string   `json:"preferred_name,omitempty"`
	Mobile                       *string   `json:"mobile,omitempty"`
	Grade                        *string   `json:"grade,omitempty"`
	GraduationYear               *int      `json:"graduation_year,omitempty"`
	GPA                          *float64  `json:"gpa,omitempty"`
	DateOfBirth                  *string   `json:"date_of_birth,omitempty"`
	Gender                       *string   `json:"gender,omitempty"`
	ShirtSize                    *string   `json:"shirt_size,omitempty"`
	TShirtSize                   *string   `json:"t_shirt_size,omitempty"`
	HoodieSize                   *string   `json:"hoodie_size,omitempty"`
	ProfilePictureURL            *string   `json:"profile_picture_url,omitempty"`
	Address                      *Address  `json:"address,omitempty"`
	SocialsInstagram             *string   `json:"socials_instagram,omitempty"`
	SocialsSnapchat              *string   `json:"socials_snap,omitempty"`
	SocialsTikTok                *string   `json:"socials_tiktok,omitempty"`
	EmergencyContactName         *string   `json:"emergency_contact_name,omitempty"`
	EmergencyContactPhone        *string   `json:"emergency_contact_phone,omitempty"`
	EmergencyContactRelationship *string   `json:"emergency_contact_relationship,omitempty"`
	MedicalConditions            *string   `json:"medical_conditions,omitempty"`
	Allergies                    *string   `json:"allergies,omitempty"`
	DietaryRestrictions          *string   `json:"dietary_restrictions,omitempty"`
	TransportationNeeds          *string   `json:"transportation_needs,omitempty"`
	SpecialAccommodations        *string   `json:"special_accommodations,omitempty"`
	Sports                       *[]string `json:"sports,omitempty"`
	AcademicInterests            *[]string `json:"academic_interests,omitempty"`
	CareerInterests              *[]string `json:"career_interests,omitempty"`
	LeadershipPositions          *[]string `json:"leadership_positions,omitempty"`
	CommunityServiceHours        *int      `json:"community_service_hours,omitempty"`
	Notes                        *string   `json:"notes,omitempty"`
}

// IsEmpty returns true if the patch changes nothing.
func (p Patch) IsEmpty() bool {
	return len(p.Fields()) == 0
}

// Fields returns the supplied fields keyed by column name.
// Slices and the address are returned as values; callers encode them.
func (p Patch) Fields() map[string]any {
	f := make(map[string]any)
	setString := func(col string, v *string) {
		if v != nil {
			f[col] = *v
		}
	}
	setString("first_name", p.FirstName)
	setString("last_name", p.LastName)
	setString("preferred_name", p.PreferredName)
	setString("mobile", p.Mobile)
	setString("grade", p.Grade)
	setString("date_of_birth", p.DateOfBirth)
	setString("gender", p.Gender)
	setString("shirt_size", p.ShirtSize)
	setString("t_shirt_size", p.TShirtSize)
	setString("hoodie_size", p.HoodieSize)
	setString("profile_picture_url", p.ProfilePictureURL)
	setString("socials_instagram", p.SocialsInstagram)
	setString("socials_snap", p.SocialsSnapchat)
	setString("socials_tiktok", p.SocialsTikTok)
	setString("emergency_contact_name", p.EmergencyContactName)
	setString("emergency_contact_phone", p.EmergencyContactPhone)
	setString("emergency_contact_relationship", p.EmergencyContactRelationship)
	setString("medical_conditions", p.MedicalConditions)
	setString("allergies", p.Allergies)
	setString("dietary_restrictions", p.DietaryRestrictions)
	setString("transportation_needs", p.TransportationNeeds)
	setString("special_accommodations", p.SpecialAccommodations)
	setString("notes", p.Notes)
	if p.GraduationYear != nil {
		f["graduation_year"] = *p.GraduationYear
	}
	if p.GPA != nil {
		f["gpa"] = *p.GPA
	}
	if p.CommunityServiceHours != nil {
		f["community_service_hours"] = *p.CommunityServiceHours
	}
	if p.Address != nil {
		f["address"] = *p.Address
	}
	if p.Sports != nil {
		f["sports"] = *p.Sports
	}
	if p.AcademicInterests != nil {
		f["academic_interests"] = *p.AcademicInterests
	}
	if p.CareerInterests != nil {
		f["career_interests"] = *p.CareerInterests
	}
	if p.LeadershipPositions != nil {
		f["leadership_positions"] = *p.LeadershipPositions
	}
	return f
}

// Apply copies every supplied field onto the profile.
// PRE: patch has been decoded
// POST: Only fields present in patch are changed; UpdatedAt is set to now
func (p *Profile) Apply(patch Patch, now time.Time) {
	assign := func(dst *string, v *string) {
		if v != nil {
			*dst = *v
		}
	}
	assign(&p.FirstName, patch.FirstName)
	assign(&p.LastName, patch.LastName)
	assign(&p.PreferredName, patch.PreferredName)
	assign(&p.Mobile, patch.Mobile)
	assign(&p.Grade, patch.Grade)
	assign(&p.DateOfBirth, patch.DateOfBirth)
	assign(&p.Gender, patch.Gender)
	assign(&p.ShirtSize, patch.ShirtSize)
	assign(&p.TShirtSize, patch.TShirtSize)
	assign(&p.HoodieSize, patch.HoodieSize)
	assign(&p.ProfilePictureURL, patch.ProfilePictureURL)
	assign(&p.Socials.Instagram, patch.SocialsInstagram)
	assign(&p.Socials.Snapchat, patch.SocialsSnapchat)
	assign(&p.Socials.TikTok, patch.SocialsTikTok)
	assign(&p.EmergencyContactName, patch.EmergencyContactName)
	assign(&p.EmergencyContactPhone, patch.EmergencyContactPhone)
	assign(&p.EmergencyContactRelationship, patch.EmergencyContactRelationship)
	assign(&p.MedicalConditions, patch.MedicalConditions)
	assign(&p.Allergies, patch.Allergies)
	assign(&p.DietaryRestrictions, patch.DietaryRestrictions)
	assign(&p.TransportationNeeds, patch.TransportationNeeds)
	assign(&p.SpecialAccommodations, patch.SpecialAccommodations)
	assign(&p.Notes, patch.Notes)
	if patch.GraduationYear != nil {
		p.GraduationYear = *patch.GraduationYear
	}
	if patch.GPA != nil {
		p.GPA = *patch.GPA
	}
	if patch.CommunityServiceHours != nil {
		p.CommunityServiceHours = *patch.CommunityServiceHours
	}
	if patch.Address != nil {
		p.Address = *patch.Address
	}
	if patch.Sports != nil {
		p.Sports = *patch.Sports
	}
	if patch.AcademicInterests != nil {
		p.AcademicInterests = *patch.AcademicInterests
	}
	if patch.CareerInterests != nil {
		p.CareerInterests = *patch.CareerInterests
	}
	if patch.LeadershipPositions != nil {
		p.LeadershipPositions = *patch.LeadershipPositions
	}
	p.UpdatedAt = now
}
