package postgres

import (
	"encoding/json"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/near-indexer/modules/market/internal/entity"
	"github.com/gaze-network/near-indexer/modules/market/repository/postgres/gen"
	"github.com/gaze-network/uint128"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/samber/lo"
)

func uint128FromNumeric(src pgtype.Numeric) (*uint128.Uint128, error) {
	if !src.Valid {
		return nil, nil
	}
	bytes, err := src.MarshalJSON()
	if err != nil {
		return nil, errors.WithStack(err)
	}
	result, err := uint128.FromString(string(bytes))
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return &result, nil
}

func numericFromUint128(src *uint128.Uint128) (pgtype.Numeric, error) {
	if src == nil {
		return pgtype.Numeric{}, nil
	}
	bytes := []byte(src.String())
	var result pgtype.Numeric
	err := result.UnmarshalJSON(bytes)
	if err != nil {
		return pgtype.Numeric{}, errors.WithStack(err)
	}
	return result, nil
}

func timestamptz(src time.Time) pgtype.Timestamptz {
	return pgtype.Timestamptz{Time: src.UTC(), Valid: true}
}

func timestamptzFromPtr(src *time.Time) pgtype.Timestamptz {
	if src == nil {
		return pgtype.Timestamptz{}
	}
	return timestamptz(*src)
}

func timeFromTimestamptz(src pgtype.Timestamptz) *time.Time {
	if !src.Valid {
		return nil
	}
	return lo.ToPtr(src.Time.UTC())
}

func text(src string) pgtype.Text {
	return pgtype.Text{String: src, Valid: true}
}

func textFromPtr(src *string) pgtype.Text {
	if src == nil {
		return pgtype.Text{}
	}
	return text(*src)
}

func stringFromText(src pgtype.Text) *string {
	if !src.Valid {
		return nil
	}
	return lo.ToPtr(src.String)
}

func int8FromPtr(src *uint64) pgtype.Int8 {
	if src == nil {
		return pgtype.Int8{}
	}
	return pgtype.Int8{Int64: int64(*src), Valid: true}
}

func uint64FromInt8(src pgtype.Int8) *uint64 {
	if !src.Valid {
		return nil
	}
	return lo.ToPtr(uint64(src.Int64))
}

// jsonb maps an empty document to NULL.
func jsonb(src json.RawMessage) []byte {
	if len(src) == 0 {
		return nil
	}
	return src
}

func mapTokenModelToType(src gen.NftToken) entity.Token {
	var percent *int32
	if src.RoyaltiesPercent.Valid {
		percent = lo.ToPtr(src.RoyaltiesPercent.Int32)
	}
	return entity.Token{
		NftContractID:         src.NftContractID,
		TokenID:               src.TokenID,
		Owner:                 src.Owner,
		MintMemo:              stringFromText(src.MintMemo),
		MintedTimestamp:       timeFromTimestamptz(src.MintedTimestamp),
		MintedReceiptID:       stringFromText(src.MintedReceiptID),
		Minter:                stringFromText(src.Minter),
		BurnedTimestamp:       timeFromTimestamptz(src.BurnedTimestamp),
		BurnedReceiptID:       stringFromText(src.BurnedReceiptID),
		LastTransferTimestamp: timeFromTimestamptz(src.LastTransferTimestamp),
		LastTransferReceiptID: stringFromText(src.LastTransferReceiptID),
		Royalties:             src.Royalties,
		RoyaltiesPercent:      percent,
		Splits:                src.Splits,
		MetadataID:            stringFromText(src.MetadataID),
	}
}

func mapListingModelToType(src gen.NftListing) (entity.Listing, error) {
	price, err := uint128FromNumeric(src.Price)
	if err != nil {
		return entity.Listing{}, errors.Wrap(err, "failed to parse price")
	}
	return entity.Listing{
		ListingKey: entity.ListingKey{
			NftContractID: src.NftContractID,
			TokenID:       src.TokenID,
			MarketID:      src.MarketID,
			ApprovalID:    uint64(src.ApprovalID),
		},
		CreatedAt:         src.CreatedAt.Time.UTC(),
		ReceiptID:         src.ReceiptID,
		Kind:              entity.ListingKind(src.Kind),
		Price:             price,
		Currency:          src.Currency,
		ListedBy:          src.ListedBy,
		MetadataID:        stringFromText(src.MetadataID),
		UnlistedAt:        timeFromTimestamptz(src.UnlistedAt),
		UnlistedReceiptID: stringFromText(src.UnlistedReceiptID),
		AcceptedAt:        timeFromTimestamptz(src.AcceptedAt),
		AcceptedReceiptID: stringFromText(src.AcceptedReceiptID),
		AcceptedOfferID:   uint64FromInt8(src.AcceptedOfferID),
		InvalidatedAt:     timeFromTimestamptz(src.InvalidatedAt),
	}, nil
}

func mapListingTypeToParams(src entity.Listing) (gen.InsertListingParams, error) {
	price, err := numericFromUint128(src.Price)
	if err != nil {
		return gen.InsertListingParams{}, errors.Wrap(err, "failed to parse price")
	}
	return gen.InsertListingParams{
		NftContractID: src.NftContractID,
		TokenID:       src.TokenID,
		MarketID:      src.MarketID,
		ApprovalID:    int64(src.ApprovalID),
		CreatedAt:     timestamptz(src.CreatedAt),
		ReceiptID:     src.ReceiptID,
		Kind:          string(src.Kind),
		Price:         price,
		Currency:      src.Currency,
		ListedBy:      src.ListedBy,
		MetadataID:    textFromPtr(src.MetadataID),
	}, nil
}

func mapOfferModelToType(src gen.NftOffer) (entity.Offer, error) {
	price, err := uint128FromNumeric(src.Price)
	if err != nil {
		return entity.Offer{}, errors.Wrap(err, "failed to parse price")
	}
	referralAmount, err := uint128FromNumeric(src.ReferralAmount)
	if err != nil {
		return entity.Offer{}, errors.Wrap(err, "failed to parse referral amount")
	}
	affiliateAmount, err := uint128FromNumeric(src.AffiliateAmount)
	if err != nil {
		return entity.Offer{}, errors.Wrap(err, "failed to parse affiliate amount")
	}
	return entity.Offer{
		OfferKey: entity.OfferKey{
			ListingKey: entity.ListingKey{
				NftContractID: src.NftContractID,
				TokenID:       src.TokenID,
				MarketID:      src.MarketID,
				ApprovalID:    uint64(src.ApprovalID),
			},
			OfferID: uint64(src.OfferID),
		},
		OfferedBy:       src.OfferedBy,
		ReceiptID:       src.ReceiptID,
		OfferedAt:       src.OfferedAt.Time.UTC(),
		Price:           lo.FromPtr(price),
		Currency:        src.Currency,
		ReferrerID:      stringFromText(src.ReferrerID),
		ReferralAmount:  referralAmount,
		AffiliateID:     stringFromText(src.AffiliateID),
		AffiliateAmount: affiliateAmount,
		ExpiresAt:       timeFromTimestamptz(src.ExpiresAt),
		WithdrawnAt:     timeFromTimestamptz(src.WithdrawnAt),
		AcceptedAt:      timeFromTimestamptz(src.AcceptedAt),
		OutbidAt:        timeFromTimestamptz(src.OutbidAt),
		InvalidatedAt:   timeFromTimestamptz(src.InvalidatedAt),
	}, nil
}

func mapOfferTypeToParams(src entity.Offer) (gen.InsertOfferParams, error) {
	price, err := numericFromUint128(&src.Price)
	if err != nil {
		return gen.InsertOfferParams{}, errors.Wrap(err, "failed to parse price")
	}
	referralAmount, err := numericFromUint128(src.ReferralAmount)
	if err != nil {
		return gen.InsertOfferParams{}, errors.Wrap(err, "failed to parse referral amount")
	}
	affiliateAmount, err := numericFromUint128(src.AffiliateAmount)
	if err != nil {
		return gen.InsertOfferParams{}, errors.Wrap(err, "failed to parse affiliate amount")
	}
	return gen.InsertOfferParams{
		NftContractID:   src.NftContractID,
		TokenID:         src.TokenID,
		MarketID:        src.MarketID,
		ApprovalID:      int64(src.ApprovalID),
		OfferID:         int64(src.OfferID),
		OfferedBy:       src.OfferedBy,
		ReceiptID:       src.ReceiptID,
		OfferedAt:       timestamptz(src.OfferedAt),
		Price:           price,
		Currency:        src.Currency,
		ReferrerID:      textFromPtr(src.ReferrerID),
		ReferralAmount:  referralAmount,
		AffiliateID:     textFromPtr(src.AffiliateID),
		AffiliateAmount: affiliateAmount,
		ExpiresAt:       timestamptzFromPtr(src.ExpiresAt),
	}, nil
}

func mapActivitiesTypeToParams(src []entity.Activity) (gen.InsertActivitiesPatchedParams, error) {
	var params gen.InsertActivitiesPatchedParams
	for _, activity := range src {
		price, err := numericFromUint128(activity.Price)
		if err != nil {
			return gen.InsertActivitiesPatchedParams{}, errors.Wrap(err, "failed to parse price")
		}
		params.ReceiptIDArr = append(params.ReceiptIDArr, activity.ReceiptID)
		params.TxSenderArr = append(params.TxSenderArr, activity.TxSender)
		params.SenderPkArr = append(params.SenderPkArr, textFromPtr(activity.SenderPK))
		params.TimestampArr = append(params.TimestampArr, timestamptz(activity.Timestamp))
		params.NftContractIDArr = append(params.NftContractIDArr, activity.NftContractID)
		params.TokenIDArr = append(params.TokenIDArr, activity.TokenID)
		params.KindArr = append(params.KindArr, string(activity.Kind))
		params.ActionSenderArr = append(params.ActionSenderArr, textFromPtr(activity.ActionSender))
		params.ActionReceiverArr = append(params.ActionReceiverArr, textFromPtr(activity.ActionReceiver))
		params.MemoArr = append(params.MemoArr, textFromPtr(activity.Memo))
		params.PriceArr = append(params.PriceArr, price)
		params.CurrencyArr = append(params.CurrencyArr, textFromPtr(activity.Currency))
	}
	return params, nil
}

func mapEarningsTypeToParams(src []entity.Earning) (gen.InsertEarningsParams, error) {
	var params gen.InsertEarningsParams
	for _, earning := range src {
		amount, err := numericFromUint128(&earning.Amount)
		if err != nil {
			return gen.InsertEarningsParams{}, errors.Wrap(err, "failed to parse amount")
		}
		params.NftContractIDArr = append(params.NftContractIDArr, earning.NftContractID)
		params.TokenIDArr = append(params.TokenIDArr, earning.TokenID)
		params.MarketIDArr = append(params.MarketIDArr, earning.MarketID)
		params.ApprovalIDArr = append(params.ApprovalIDArr, int64(earning.ApprovalID))
		params.OfferIDArr = append(params.OfferIDArr, int64(earning.OfferID))
		params.ReceiverIDArr = append(params.ReceiverIDArr, earning.ReceiverID)
		params.ReceiptIDArr = append(params.ReceiptIDArr, earning.ReceiptID)
		params.TimestampArr = append(params.TimestampArr, timestamptz(earning.Timestamp))
		params.CurrencyArr = append(params.CurrencyArr, earning.Currency)
		params.AmountArr = append(params.AmountArr, amount)
		params.IsReferralArr = append(params.IsReferralArr, earning.IsReferral)
		params.IsAffiliateArr = append(params.IsAffiliateArr, earning.IsAffiliate)
		params.IsMintbaseCutArr = append(params.IsMintbaseCutArr, earning.IsMintbaseCut)
	}
	return params, nil
}

func mapFtActivityTypeToParams(src entity.FtMovement) (gen.InsertFtActivityParams, error) {
	amount, err := numericFromUint128(&src.Amount)
	if err != nil {
		return gen.InsertFtActivityParams{}, errors.Wrap(err, "failed to parse amount")
	}
	return gen.InsertFtActivityParams{
		ReceiptID:    src.ReceiptID,
		LogIndex:     int32(src.LogIndex),
		ItemIndex:    int32(src.ItemIndex),
		Timestamp:    timestamptz(src.Timestamp),
		FtContractID: src.FtContract,
		Kind:         string(src.Kind),
		OldOwnerID:   pgtype.Text{String: src.OldOwnerID, Valid: src.OldOwnerID != ""},
		NewOwnerID:   pgtype.Text{String: src.NewOwnerID, Valid: src.NewOwnerID != ""},
		Amount:       amount,
		Memo:         textFromPtr(src.Memo),
	}, nil
}
