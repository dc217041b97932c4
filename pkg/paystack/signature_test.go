package paystack

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVerifySignature(t *testing.T) {
	secret := "sk_test_abc123"
	body := []byte(`{"event":"charge.success","data":{"reference":"ref_1"}}`)
	sig := SignBody(secret, body)

	t.Run("accepts valid signature over exact body", func(t *testing.T) {
		assert.True(t, VerifySignature(secret, body, sig))
	})

	t.Run("rejects wrong secret", func(t *testing.T) {
		assert.False(t, VerifySignature("sk_test_other", body, sig))
	})

	t.Run("rejects mutated body", func(t *testing.T) {
		// Flip every single byte in turn: each mutation must flip the result.
		for i := range body {
			mutated := make([]byte, len(body))
			copy(mutated, body)
			mutated[i] ^= 0x01
			assert.False(t, VerifySignature(secret, mutated, sig), "mutation at byte %d must reject", i)
		}
	})

	t.Run("rejects re-serialized body", func(t *testing.T) {
		// Same JSON value, different bytes.
		reencoded := []byte(`{"data":{"reference":"ref_1"},"event":"charge.success"}`)
		assert.False(t, VerifySignature(secret, reencoded, sig))
	})

	t.Run("fails closed on missing secret", func(t *testing.T) {
		assert.False(t, VerifySignature("", body, SignBody("", body)))
	})

	t.Run("fails closed on missing signature", func(t *testing.T) {
		assert.False(t, VerifySignature(secret, body, ""))
	})
}

func TestParseEvent(t *testing.T) {
	t.Run("full envelope", func(t *testing.T) {
		body := []byte(`{
			"event": "charge.success",
			"data": {
				"status": "success",
				"reference": "ref_42",
				"amount": 2500,
				"metadata": {"name": "Kwame", "phone": "0551234567", "ref": "AFF1"},
				"customer": {"email": "k@example.com", "phone": ""}
			}
		}`)

		ev, err := ParseEvent(body)
		assert.NoError(t, err)
		assert.True(t, ev.IsSuccessfulCharge())
		assert.Equal(t, "ref_42", ev.Data.Reference)
		assert.Equal(t, "0551234567", ev.BuyerPhone())
		assert.Equal(t, "k@example.com", ev.BuyerEmail())
		assert.Equal(t, "AFF1", ev.Data.Metadata.Ref)
	})

	t.Run("customer fallback for phone and email", func(t *testing.T) {
		body := []byte(`{
			"event": "charge.success",
			"data": {
				"status": "success",
				"reference": "ref_43",
				"metadata": {},
				"customer": {"email": "c@example.com", "phone": "+233200000000"}
			}
		}`)

		ev, err := ParseEvent(body)
		assert.NoError(t, err)
		assert.Equal(t, "+233200000000", ev.BuyerPhone())
		assert.Equal(t, "c@example.com", ev.BuyerEmail())
	})

	t.Run("non-object metadata is tolerated", func(t *testing.T) {
		body := []byte(`{"event":"charge.success","data":{"status":"success","reference":"r","metadata":""}}`)
		ev, err := ParseEvent(body)
		assert.NoError(t, err)
		assert.Equal(t, Metadata{}, ev.Data.Metadata)
	})

	t.Run("other event types are not successful charges", func(t *testing.T) {
		body := []byte(`{"event":"transfer.success","data":{"status":"success","reference":"r"}}`)
		ev, err := ParseEvent(body)
		assert.NoError(t, err)
		assert.False(t, ev.IsSuccessfulCharge())
	})

	t.Run("charge with failed status is filtered", func(t *testing.T) {
		body := []byte(`{"event":"charge.success","data":{"status":"failed","reference":"r"}}`)
		ev, err := ParseEvent(body)
		assert.NoError(t, err)
		assert.False(t, ev.IsSuccessfulCharge())
	})

	t.Run("malformed body", func(t *testing.T) {
		_, err := ParseEvent([]byte(`not json`))
		assert.ErrorIs(t, err, ErrMalformedEvent)
	})

	t.Run("missing event field", func(t *testing.T) {
		_, err := ParseEvent([]byte(`{"data":{}}`))
		assert.ErrorIs(t, err, ErrMalformedEvent)
	})
}
