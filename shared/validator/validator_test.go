package validator_test

import (
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"innkeep/shared/failure"
	"innkeep/shared/validator"
)

type bookingRequest struct {
	GuestName  string   `json:"guest_name"  validate:"required,max=120"`
	GuestEmail string   `json:"guest_email" validate:"omitempty,email"`
	CheckIn    string   `json:"check_in"    validate:"required,day"`
	CheckOut   string   `json:"check_out"   validate:"required,day"`
	Status     string   `json:"status"      validate:"omitempty,booking_status"`
	RoomIDs    []string `json:"room_ids"    validate:"omitempty,unique"`
}

func TestValidateStruct(t *testing.T) {
	valid := bookingRequest{GuestName: "Ada", CheckIn: "2026-03-01", CheckOut: "2026-03-04", Status: "tentative"}

	tests := []struct {
		name    string
		mutate  func(r *bookingRequest)
		message string
	}{
		{name: "valid", mutate: func(*bookingRequest) {}},
		{name: "missing guest", mutate: func(r *bookingRequest) { r.GuestName = "" }, message: "guest_name is required"},
		{name: "bad email", mutate: func(r *bookingRequest) { r.GuestEmail = "nope" }, message: "guest_email must be a valid email address"},
		{name: "bad day", mutate: func(r *bookingRequest) { r.CheckIn = "01/03/2026" }, message: "check_in must be a date formatted as YYYY-MM-DD"},
		{name: "unknown status", mutate: func(r *bookingRequest) { r.Status = "confirmed" }, message: "status must be one of tentative reserved checked_in checked_out cancelled"},
		{name: "duplicate rooms", mutate: func(r *bookingRequest) { r.RoomIDs = []string{"a", "a"} }, message: "room_ids must not contain duplicates"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			tt.mutate(&req)

			err := validator.ValidateStruct(&req)
			if tt.message == "" {
				assert.NoError(t, err)

				return
			}

			var fail *failure.Failure
			require.ErrorAs(t, err, &fail)
			assert.Equal(t, http.StatusBadRequest, fail.Code)
			assert.Equal(t, tt.message, fail.Message)
		})
	}
}

func TestValidateDecodesBody(t *testing.T) {
	var req bookingRequest

	err := validator.Validate(strings.NewReader(`{"guest_name":"Ada","check_in":"2026-03-01","check_out":"2026-03-02"}`), &req)
	require.NoError(t, err)
	assert.Equal(t, "Ada", req.GuestName)

	err = validator.Validate(strings.NewReader(`{"guest_name":`), &req)
	assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
}

func TestValidateVar(t *testing.T) {
	tests := []struct {
		name    string
		field   any
		tag     string
		wantErr bool
	}{
		{name: "room status", field: "dirty", tag: "room_status"},
		{name: "bad room status", field: "broken", tag: "room_status", wantErr: true},
		{name: "timezone", field: "Asia/Jakarta", tag: "timezone"},
		{name: "bad timezone", field: "Mars/Base", tag: "timezone", wantErr: true},
		{name: "uuid", field: "5f2b0d5e-8c1e-4a53-9d4c-2a0b8f5f6c11", tag: "uuid"},
		{name: "bad uuid", field: "r1", tag: "uuid", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateVar(tt.field, tt.tag)
			assert.Equal(t, tt.wantErr, err != nil)
		})
	}
}

type uploadRequest struct {
	Image multipart.FileHeader `form:"image" validate:"mimetypes=image/jpeg image/png,maxfilesize=1"`
}

func TestFileRules(t *testing.T) {
	header := func(contentType string, size int64) multipart.FileHeader {
		h := textproto.MIMEHeader{}
		h.Set("Content-Type", contentType)

		return multipart.FileHeader{Filename: "room.jpg", Header: h, Size: size}
	}

	assert.NoError(t, validator.ValidateStruct(&uploadRequest{Image: header("image/png", 512)}))
	assert.Error(t, validator.ValidateStruct(&uploadRequest{Image: header("application/pdf", 512)}))
	assert.Error(t, validator.ValidateStruct(&uploadRequest{Image: header("image/png", 2*1024*1024)}))
}
