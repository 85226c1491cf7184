package gen

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/jackc/pgx/v5/pgtype"
)

// const insertActivities = `-- name: InsertActivities :exec
// INSERT INTO "nft_activities" (...)
// SELECT * FROM unnest(
// 	$1::TEXT[],
// 	$2::TEXT[],
// 	$3::TEXT[], -- nullable (need patch)
// 	$4::TIMESTAMPTZ[],
// 	$5::TEXT[],
// 	$6::TEXT[],
// 	$7::TEXT[],
// 	$8::TEXT[], -- nullable (need patch)
// 	$9::TEXT[], -- nullable (need patch)
// 	$10::TEXT[], -- nullable (need patch)
// 	$11::DECIMAL[],
// 	$12::TEXT[] -- nullable (need patch)
// )
// ON CONFLICT DO NOTHING;
// `

type InsertActivitiesPatchedParams struct {
	InsertActivitiesParams
	SenderPkArr       []pgtype.Text
	ActionSenderArr   []pgtype.Text
	ActionReceiverArr []pgtype.Text
	MemoArr           []pgtype.Text
	CurrencyArr       []pgtype.Text
}

func (q *Queries) InsertActivitiesPatched(ctx context.Context, arg InsertActivitiesPatchedParams) error {
	_, err := q.db.Exec(ctx, insertActivities,
		arg.ReceiptIDArr,
		arg.TxSenderArr,
		arg.SenderPkArr,
		arg.TimestampArr,
		arg.NftContractIDArr,
		arg.TokenIDArr,
		arg.KindArr,
		arg.ActionSenderArr,
		arg.ActionReceiverArr,
		arg.MemoArr,
		arg.PriceArr,
		arg.CurrencyArr,
	)
	return errors.WithStack(err)
}
