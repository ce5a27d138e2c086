package fhirmodels_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ehr/fhirstu3/pkg/fhirmodels"
	"github.com/ehr/fhirstu3/pkg/fhirtest"
)

func TestPatientExample(t *testing.T) {
	r := fhirtest.RoundTrip[fhirmodels.Patient](t, parser, load(t, "patient-example.json"))

	assert.Equal(t, "example", r.ID)
	assert.Equal(t, "generated", r.Text.Status)

	require.Len(t, r.Identifier, 1)
	assert.Equal(t, "usual", r.Identifier[0].Use)
	assert.Equal(t, "http://hl7.org/fhir/v2/0203", r.Identifier[0].Type.Coding[0].System)
	assert.Equal(t, "MR", r.Identifier[0].Type.Coding[0].Code)
	assert.Equal(t, "urn:oid:1.2.36.146.595.217.0.1", r.Identifier[0].System)
	assert.Equal(t, "12345", r.Identifier[0].Value)
	assert.Equal(t, "2001-05-06", r.Identifier[0].Period.Start)
	assert.Equal(t, "Acme Healthcare", r.Identifier[0].Assigner.Display)

	require.NotNil(t, r.Active)
	assert.True(t, *r.Active)

	require.Len(t, r.Name, 3)
	assert.Equal(t, "official", r.Name[0].Use)
	assert.Equal(t, "Chalmers", r.Name[0].Family)
	assert.Equal(t, []string{"Peter", "James"}, r.Name[0].Given)
	assert.Equal(t, "usual", r.Name[1].Use)
	assert.Equal(t, []string{"Jim"}, r.Name[1].Given)
	assert.Equal(t, "maiden", r.Name[2].Use)
	assert.Equal(t, "Windsor", r.Name[2].Family)
	assert.Equal(t, "2002", r.Name[2].Period.End)

	require.Len(t, r.Telecom, 4)
	assert.Equal(t, "home", r.Telecom[0].Use)
	assert.Equal(t, "phone", r.Telecom[1].System)
	assert.Equal(t, "(03) 5555 6473", r.Telecom[1].Value)
	assert.Equal(t, "work", r.Telecom[1].Use)
	assert.Equal(t, 1, *r.Telecom[1].Rank)
	assert.Equal(t, "mobile", r.Telecom[2].Use)
	assert.Equal(t, 2, *r.Telecom[2].Rank)
	assert.Equal(t, "old", r.Telecom[3].Use)
	assert.Equal(t, "2014", r.Telecom[3].Period.End)

	assert.Equal(t, fhirmodels.GenderMale, r.Gender)
	assert.Equal(t, "1974-12-25", r.BirthDate)
	require.NotNil(t, r.BirthDateExt)
	require.Len(t, r.BirthDateExt.Extension, 1)
	assert.Equal(t, "http://hl7.org/fhir/StructureDefinition/patient-birthTime", r.BirthDateExt.Extension[0].URL)
	assert.Equal(t, "1974-12-25T14:35:45-05:00", r.BirthDateExt.Extension[0].ValueDateTime)

	require.NotNil(t, r.DeceasedBoolean)
	assert.False(t, *r.DeceasedBoolean)

	require.Len(t, r.Address, 1)
	assert.Equal(t, "home", r.Address[0].Use)
	assert.Equal(t, "both", r.Address[0].Type)
	assert.Equal(t, "534 Erewhon St PeasantVille, Rainbow, Vic  3999", r.Address[0].Text)
	assert.Equal(t, []string{"534 Erewhon St"}, r.Address[0].Line)
	assert.Equal(t, "PleasantVille", r.Address[0].City)
	assert.Equal(t, "Rainbow", r.Address[0].District)
	assert.Equal(t, "Vic", r.Address[0].State)
	assert.Equal(t, "3999", r.Address[0].PostalCode)
	assert.Equal(t, "1974-12-25", r.Address[0].Period.Start)

	require.Len(t, r.Contact, 1)
	c := r.Contact[0]
	assert.Equal(t, "N", c.Relationship[0].Coding[0].Code)
	assert.Equal(t, "du Marché", c.Name.Family)
	require.NotNil(t, c.Name.FamilyExt)
	assert.Equal(t, "http://hl7.org/fhir/StructureDefinition/humanname-own-prefix", c.Name.FamilyExt.Extension[0].URL)
	assert.Equal(t, "VV", c.Name.FamilyExt.Extension[0].ValueString)
	assert.Equal(t, []string{"Bénédicte"}, c.Name.Given)
	assert.Equal(t, "+33 (237) 998327", c.Telecom[0].Value)
	assert.Equal(t, "PleasantVille", c.Address.City)
	assert.Equal(t, fhirmodels.GenderFemale, c.Gender)
	assert.Equal(t, "2012", c.Period.Start)

	assert.Equal(t, "Organization/1", r.ManagingOrganization.Reference)
}
