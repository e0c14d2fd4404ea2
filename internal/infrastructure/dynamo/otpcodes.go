package dynamo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/phone-otp-api/internal/domain"
	"github.com/phone-otp-api/internal/pkg/id"
	"github.com/phone-otp-api/internal/pkg/otpcode"
)

// OTPRepo stores the single active verification code per phone key.
// PK: phone_key, TTL on expires_at.
//
// All read-check-write sequences go through DynamoDB conditional writes so
// that concurrent calls on the same key serialize at the storage engine:
// the cooldown check cannot be bypassed by two racing Creates, and the
// attempt cap holds under concurrent Verifies.
type OTPRepo struct {
	client    *dynamodb.Client
	tableName string
	policy    domain.OTPPolicy
}

func NewOTPRepo(client *dynamodb.Client, tableName string, policy domain.OTPPolicy) *OTPRepo {
	return &OTPRepo{client: client, tableName: tableName, policy: policy}
}

// Create generates a fresh code and stores it, replacing any prior record for
// the key. Fails with domain.ErrRateLimited while a non-expired record younger
// than the cooldown window exists. Returns the plaintext code for delivery.
func (r *OTPRepo) Create(ctx context.Context, phoneKey string) (string, error) {
	code, err := otpcode.Generate(r.policy.CodeLength)
	if err != nil {
		return "", err
	}
	now := time.Now()
	rec := &domain.OTPCode{
		PhoneKey:  phoneKey,
		OTPID:     id.New(),
		Code:      code,
		Attempts:  0,
		CreatedAt: now.Unix(),
		ExpiresAt: now.Add(r.policy.TTL).Unix(),
	}
	item, err := attributevalue.MarshalMap(rec)
	if err != nil {
		return "", fmt.Errorf("marshal otp record: %w", err)
	}
	// The put succeeds when no record exists, the existing one is past its
	// TTL, or the cooldown has elapsed since it was created.
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(phone_key) OR expires_at <= :now OR created_at <= :cutoff"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":now":    numAttr(now.Unix()),
			":cutoff": numAttr(now.Add(-r.policy.Cooldown).Unix()),
		},
	})
	if err != nil {
		var ccfe *types.ConditionalCheckFailedException
		if errors.As(err, &ccfe) {
			return "", domain.ErrRateLimited
		}
		return "", fmt.Errorf("put otp record: %w", err)
	}
	slog.Info("otp code created", "otp_id", rec.OTPID, "expires_at", rec.ExpiresAt)
	return code, nil
}

// Verify consumes one attempt against the active record and compares the
// submitted code. The attempt increment is a single conditional UpdateItem
// (atomic increment-and-fetch), so two concurrent calls can never both slip
// under the attempt cap.
//
// Returns (true, nil) and deletes the record on a match; (false, nil) on a
// wrong code with attempts remaining; domain.ErrNotFound when no live record
// exists; domain.ErrAttemptsExceeded once the cap is reached (the record is
// deleted as a side effect).
func (r *OTPRepo) Verify(ctx context.Context, phoneKey, submitted string) (bool, error) {
	now := time.Now().Unix()
	out, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:           aws.String(r.tableName),
		Key:                 strKey("phone_key", phoneKey),
		UpdateExpression:    aws.String("ADD attempts :one"),
		ConditionExpression: aws.String("attribute_exists(phone_key) AND expires_at > :now AND attempts < :max"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":one": numAttr(1),
			":now": numAttr(now),
			":max": numAttr(int64(r.policy.MaxAttempts)),
		},
		ReturnValues:                        types.ReturnValueAllNew,
		ReturnValuesOnConditionCheckFailure: types.ReturnValuesOnConditionCheckFailureAllOld,
	})
	if err != nil {
		var ccfe *types.ConditionalCheckFailedException
		if !errors.As(err, &ccfe) {
			return false, fmt.Errorf("increment attempts: %w", err)
		}
		if len(ccfe.Item) == 0 {
			return false, domain.ErrNotFound
		}
		var old domain.OTPCode
		if uerr := attributevalue.UnmarshalMap(ccfe.Item, &old); uerr != nil {
			return false, fmt.Errorf("unmarshal otp record: %w", uerr)
		}
		if old.Expired(time.Unix(now, 0)) {
			return false, domain.ErrNotFound
		}
		// Attempts were already exhausted before this call.
		if derr := r.Delete(ctx, phoneKey); derr != nil {
			slog.Warn("failed to delete exhausted otp record", "otp_id", old.OTPID, "err", derr)
		}
		return false, domain.ErrAttemptsExceeded
	}

	var rec domain.OTPCode
	if err := attributevalue.UnmarshalMap(out.Attributes, &rec); err != nil {
		return false, fmt.Errorf("unmarshal otp record: %w", err)
	}
	if rec.Code == submitted {
		// Conditional delete: if a concurrent caller already consumed the
		// record, only one of us may report success.
		if err := r.consume(ctx, phoneKey); err != nil {
			return false, err
		}
		slog.Info("otp code verified", "otp_id", rec.OTPID, "attempts", rec.Attempts)
		return true, nil
	}
	if rec.Attempts >= r.policy.MaxAttempts {
		if derr := r.Delete(ctx, phoneKey); derr != nil {
			slog.Warn("failed to delete exhausted otp record", "otp_id", rec.OTPID, "err", derr)
		}
		return false, domain.ErrAttemptsExceeded
	}
	return false, nil
}

// Delete removes the record for the key. Idempotent no-op when absent.
func (r *OTPRepo) Delete(ctx context.Context, phoneKey string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("phone_key", phoneKey),
	})
	return err
}

func (r *OTPRepo) consume(ctx context.Context, phoneKey string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:           aws.String(r.tableName),
		Key:                 strKey("phone_key", phoneKey),
		ConditionExpression: aws.String("attribute_exists(phone_key)"),
	})
	if err != nil {
		var ccfe *types.ConditionalCheckFailedException
		if errors.As(err, &ccfe) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("consume otp record: %w", err)
	}
	return nil
}

func numAttr(n int64) types.AttributeValue {
	return &types.AttributeValueMemberN{Value: strconv.FormatInt(n, 10)}
}
