package validation

import (
	"bytes"
	"encoding/json"

	"github.com/isdelr/recipes-be/internal/apperr"
)

// DecodeCreate parses a create body. An empty body decodes to an empty input
// so that field validation reports what is missing.
func DecodeCreate(body []byte) (CreateRecipeInput, *apperr.Error) {
	var in CreateRecipeInput
	if _, err := decodeObject(body, &in); err != nil {
		return CreateRecipeInput{}, err
	}
	return in, nil
}

// DecodeUpdate parses a partial update body and counts its members.
func DecodeUpdate(body []byte) (UpdateRecipeInput, *apperr.Error) {
	var in UpdateRecipeInput
	members, err := decodeObject(body, &in)
	if err != nil {
		return UpdateRecipeInput{}, err
	}
	in.Members = members
	return in, nil
}

func decodeObject(body []byte, dst any) (int, *apperr.Error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return 0, nil
	}

	var members map[string]json.RawMessage
	if err := json.Unmarshal(body, &members); err != nil {
		return 0, apperr.ErrMalformedBody.WithCause(err)
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return 0, apperr.ErrMalformedBody.WithCause(err)
	}
	return len(members), nil
}
