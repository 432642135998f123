package app

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"unihelp/internal/model"
)

func newMaterialFixture() (*MaterialService, *fakeMaterialStore, *fakeFragmentStore, *fakeFileStore) {
	materials := newFakeMaterialStore()
	fragments := newFakeFragmentStore()
	files := newFakeFileStore()
	return NewMaterialService(materials, fragments, files), materials, fragments, files
}

func TestSubmitRequiresTitle(t *testing.T) {
	svc, _, _, _ := newMaterialFixture()

	_, err := svc.Submit(SubmitMaterialInput{OwnerID: 1, Title: "   "})
	assert.ErrorIs(t, err, ErrInvalidInput)

	material, err := svc.Submit(SubmitMaterialInput{OwnerID: 1, Title: "Course syllabus", TextContent: "Week 1: intro"})
	require.NoError(t, err)
	assert.Equal(t, model.MaterialStatusPending, material.Status)
}

func TestSubmitStoresFile(t *testing.T) {
	svc, _, _, files := newMaterialFixture()

	material, err := svc.Submit(SubmitMaterialInput{
		OwnerID:  2,
		Title:    "Slides",
		FileName: "slides.pdf",
		FileData: []byte("pdf bytes"),
	})
	require.NoError(t, err)
	require.NotEmpty(t, material.FileRef)

	stored, err := files.Read(material.FileRef)
	require.NoError(t, err)
	assert.Equal(t, []byte("pdf bytes"), stored)
}

func TestReviewApproveAndReject(t *testing.T) {
	svc, materials, _, _ := newMaterialFixture()

	submitted, err := svc.Submit(SubmitMaterialInput{OwnerID: 1, Title: "Notes"})
	require.NoError(t, err)

	approved, err := svc.Review(submitted.ID, "approve", 99)
	require.NoError(t, err)
	assert.Equal(t, model.MaterialStatusApproved, approved.Status)
	assert.Equal(t, uint(99), approved.ReviewedBy)
	require.NotNil(t, approved.ApprovedAt)

	// A reviewed material cannot be reviewed again, and its state holds.
	_, err = svc.Review(submitted.ID, "reject", 99)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	current, _ := materials.GetByID(submitted.ID)
	assert.Equal(t, model.MaterialStatusApproved, current.Status)

	other, err := svc.Submit(SubmitMaterialInput{OwnerID: 1, Title: "Other"})
	require.NoError(t, err)
	rejected, err := svc.Review(other.ID, "reject", 99)
	require.NoError(t, err)
	assert.Equal(t, model.MaterialStatusRejected, rejected.Status)
	assert.Nil(t, rejected.ApprovedAt)
}

func TestReviewValidation(t *testing.T) {
	svc, _, _, _ := newMaterialFixture()

	submitted, err := svc.Submit(SubmitMaterialInput{OwnerID: 1, Title: "Notes"})
	require.NoError(t, err)

	_, err = svc.Review(submitted.ID, "maybe", 99)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Review(12345, "approve", 99)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestEditAndDeleteOwnershipRules(t *testing.T) {
	svc, _, _, _ := newMaterialFixture()

	submitted, err := svc.Submit(SubmitMaterialInput{OwnerID: 1, Title: "Draft"})
	require.NoError(t, err)

	_, err = svc.Edit(submitted.ID, 2, EditMaterialInput{Title: "Hijacked"})
	assert.ErrorIs(t, err, ErrForbidden)

	err = svc.Delete(submitted.ID, 2)
	assert.ErrorIs(t, err, ErrForbidden)

	edited, err := svc.Edit(submitted.ID, 1, EditMaterialInput{Title: "Final", Description: "v2"})
	require.NoError(t, err)
	assert.Equal(t, "Final", edited.Title)

	// Once approved the owner loses edit and delete too.
	_, err = svc.Review(submitted.ID, "approve", 99)
	require.NoError(t, err)
	_, err = svc.Edit(submitted.ID, 1, EditMaterialInput{Title: "Too late"})
	assert.ErrorIs(t, err, ErrForbidden)
	err = svc.Delete(submitted.ID, 1)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestConvertRequiresApproval(t *testing.T) {
	svc, _, fragments, _ := newMaterialFixture()

	submitted, err := svc.Submit(SubmitMaterialInput{OwnerID: 1, Title: "Pending"})
	require.NoError(t, err)

	_, err = svc.Convert(submitted.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	list, _ := fragments.ListOrdered()
	assert.Empty(t, list)
}

func TestConvertBuildsFragmentFromText(t *testing.T) {
	svc, materials, fragments, _ := newMaterialFixture()

	submitted, err := svc.Submit(SubmitMaterialInput{
		OwnerID:     1,
		Title:       "Enrollment guide",
		Description: "How to enroll in courses",
		TextContent: "Log in, open the schedule, pick courses.",
	})
	require.NoError(t, err)
	_, err = svc.Review(submitted.ID, "approve", 99)
	require.NoError(t, err)

	fragment, err := svc.Convert(submitted.ID)
	require.NoError(t, err)

	assert.Equal(t, "Enrollment guide", fragment.Title)
	assert.Contains(t, fragment.Content, "How to enroll in courses")
	assert.Contains(t, fragment.Content, "pick courses")
	assert.Contains(t, fragment.Content, conversionFooter)
	assert.Equal(t, submitted.ID, fragment.SourceMaterialID)

	// Conversion bookkeeping on the material.
	current, _ := materials.GetByID(submitted.ID)
	assert.Equal(t, fragment.ID, current.FragmentID)

	// Order keys keep increasing across converts.
	other, _ := svc.Submit(SubmitMaterialInput{OwnerID: 1, Title: "Second", TextContent: "x"})
	_, err = svc.Review(other.ID, "approve", 99)
	require.NoError(t, err)
	second, err := svc.Convert(other.ID)
	require.NoError(t, err)
	assert.Greater(t, second.OrderKey, fragment.OrderKey)

	list, _ := fragments.ListOrdered()
	assert.Len(t, list, 2)
}

func TestConvertDegradesOnMissingFile(t *testing.T) {
	svc, materials, _, _ := newMaterialFixture()

	submitted, err := svc.Submit(SubmitMaterialInput{OwnerID: 1, Title: "With file", FileName: "a.pdf", FileData: []byte("x")})
	require.NoError(t, err)
	_, err = svc.Review(submitted.ID, "approve", 99)
	require.NoError(t, err)

	// Simulate the file disappearing between submission and conversion.
	current, _ := materials.GetByID(submitted.ID)
	current.FileRef = "ref-gone.pdf"
	require.NoError(t, materials.Update(current))

	fragment, err := svc.Convert(submitted.ID)
	require.NoError(t, err)
	assert.Contains(t, fragment.Content, noteFileMissing)
}

func TestConvertDegradesOnExtractionFailure(t *testing.T) {
	svc, _, _, _ := newMaterialFixture()

	// Garbage bytes: stored fine, but not a parseable PDF.
	submitted, err := svc.Submit(SubmitMaterialInput{OwnerID: 1, Title: "Corrupt", FileName: "b.pdf", FileData: []byte("not a pdf")})
	require.NoError(t, err)
	_, err = svc.Review(submitted.ID, "approve", 99)
	require.NoError(t, err)

	fragment, err := svc.Convert(submitted.ID)
	require.NoError(t, err)
	assert.Contains(t, fragment.Content, "could not be processed")
	assert.True(t, strings.HasSuffix(fragment.Content, conversionFooter))
}
