package market

import (
	"context"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/near-indexer/common/errs"
	"github.com/gaze-network/near-indexer/modules/market/datagateway"
	"github.com/gaze-network/near-indexer/modules/market/internal/entity"
	"github.com/gaze-network/near-indexer/pkg/enrichment"
	"github.com/gaze-network/uint128"
	"github.com/samber/lo"
)

// memStore is an in-memory MarketDataGateway following the same conflict and guard rules as the
// postgres queries.
type memStore struct {
	mu sync.Mutex

	synced    *int64
	syncedLog []int64 // every committed checkpoint in write order

	tokens     map[tokenKey]*entity.Token
	approvals  map[approvalKey]entity.Approval
	contracts  map[string]*entity.Contract
	minters    map[minterKey]entity.StoreMinter
	listings   map[entity.ListingKey]*entity.Listing
	offers     map[entity.OfferKey]*entity.Offer
	earnings   map[earningKey]entity.Earning
	activities map[activityKey]entity.Activity
	external   map[entity.ExternalListingKey]*entity.ExternalListing
	ftBalances map[ftBalanceKey]uint128.Uint128
	ftSeen     map[ftActivityKey]struct{}
	accessKeys map[accessKeyKey]*entity.AccessKey
	accounts   map[accountKey]*entity.Account

	// failSyncedAt makes SetSyncedHeight fail for the given heights.
	failSyncedAt map[int64]error
	// failReceipts makes every write of the given receipts fail.
	failReceipts map[string]error
}

type tokenKey struct{ Contract, Token string }

type approvalKey struct{ Contract, Token, Account string }

type minterKey struct{ Contract, Minter string }

type activityKey struct {
	ReceiptID, Contract, Token string
	Kind                       entity.ActivityKind
}

type earningKey struct {
	entity.OfferKey
	ReceiverID                             string
	IsReferral, IsAffiliate, IsMintbaseCut bool
}

type ftBalanceKey struct{ Contract, Owner string }

type ftActivityKey struct {
	ReceiptID           string
	LogIndex, ItemIndex int
}

type accessKeyKey struct{ Account, PublicKey, ReceiptID string }

type accountKey struct{ Account, ReceiptID string }

var _ datagateway.MarketDataGateway = (*memStore)(nil)

func newMemStore() *memStore {
	return &memStore{
		tokens:       map[tokenKey]*entity.Token{},
		approvals:    map[approvalKey]entity.Approval{},
		contracts:    map[string]*entity.Contract{},
		minters:      map[minterKey]entity.StoreMinter{},
		listings:     map[entity.ListingKey]*entity.Listing{},
		offers:       map[entity.OfferKey]*entity.Offer{},
		earnings:     map[earningKey]entity.Earning{},
		activities:   map[activityKey]entity.Activity{},
		external:     map[entity.ExternalListingKey]*entity.ExternalListing{},
		ftBalances:   map[ftBalanceKey]uint128.Uint128{},
		ftSeen:       map[ftActivityKey]struct{}{},
		accessKeys:   map[accessKeyKey]*entity.AccessKey{},
		accounts:     map[accountKey]*entity.Account{},
		failSyncedAt: map[int64]error{},
		failReceipts: map[string]error{},
	}
}

func (s *memStore) fail(receiptID string) error {
	if err, ok := s.failReceipts[receiptID]; ok {
		return err
	}
	return nil
}

// readers

func (s *memStore) GetSyncedHeight(context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.synced == nil {
		return 0, errors.WithStack(errs.NotFound)
	}
	return *s.synced, nil
}

func (s *memStore) GetTokenMetadataID(_ context.Context, contractID, tokenID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	token, ok := s.tokens[tokenKey{contractID, tokenID}]
	if !ok || token.MetadataID == nil {
		return "", errors.WithStack(errs.NotFound)
	}
	return *token.MetadataID, nil
}

func (s *memStore) GetListing(_ context.Context, key entity.ListingKey) (*entity.Listing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	listing, ok := s.listings[key]
	if !ok {
		return nil, errors.WithStack(errs.NotFound)
	}
	clone := *listing
	return &clone, nil
}

func (s *memStore) GetOffer(_ context.Context, key entity.OfferKey) (*entity.Offer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	offer, ok := s.offers[key]
	if !ok {
		return nil, errors.WithStack(errs.NotFound)
	}
	clone := *offer
	return &clone, nil
}

func (s *memStore) GetToken(_ context.Context, contractID, tokenID string) (*entity.Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	token, ok := s.tokens[tokenKey{contractID, tokenID}]
	if !ok {
		return nil, errors.WithStack(errs.NotFound)
	}
	clone := *token
	return &clone, nil
}

func (s *memStore) GetFtBalance(_ context.Context, ftContract, ownerID string) (uint128.Uint128, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ftBalances[ftBalanceKey{ftContract, ownerID}], nil
}

// writers

type memTx struct {
	*memStore
}

func (memTx) Commit(context.Context) error   { return nil }
func (memTx) Rollback(context.Context) error { return nil }

func (s *memStore) BeginMarketTx(context.Context) (datagateway.MarketDataGatewayWithTx, error) {
	return memTx{s}, nil
}

func (s *memStore) SetSyncedHeight(_ context.Context, height int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err, ok := s.failSyncedAt[height]; ok {
		return err
	}
	s.synced = &height
	s.syncedLog = append(s.syncedLog, height)
	return nil
}

func (s *memStore) token(contractID, tokenID string) (*entity.Token, bool) {
	key := tokenKey{contractID, tokenID}
	token, ok := s.tokens[key]
	if !ok {
		token = &entity.Token{NftContractID: contractID, TokenID: tokenID}
		s.tokens[key] = token
	}
	return token, ok
}

func (s *memStore) UpsertMintedTokens(_ context.Context, arg datagateway.UpsertMintedTokensParams) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail(arg.ReceiptID); err != nil {
		return err
	}
	for _, tokenID := range lo.Uniq(arg.TokenIDs) {
		token, _ := s.token(arg.NftContractID, tokenID)
		token.Owner = arg.Owner
		token.Minter = ptr(arg.Minter)
		token.MintMemo = arg.Memo
		token.Royalties = arg.Royalties
		token.RoyaltiesPercent = arg.RoyaltiesPercent
		token.Splits = arg.Splits
		token.MintedReceiptID = ptr(arg.ReceiptID)
		token.MintedTimestamp = ptr(arg.Timestamp)
	}
	return nil
}

func (s *memStore) TransferTokens(_ context.Context, arg datagateway.TransferTokensParams) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail(arg.ReceiptID); err != nil {
		return err
	}
	for _, tokenID := range lo.Uniq(arg.TokenIDs) {
		token, _ := s.token(arg.NftContractID, tokenID)
		token.Owner = arg.NewOwner
		token.LastTransferReceiptID = ptr(arg.ReceiptID)
		token.LastTransferTimestamp = ptr(arg.Timestamp)
	}
	return nil
}

func (s *memStore) BurnTokens(_ context.Context, arg datagateway.BurnTokensParams) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail(arg.ReceiptID); err != nil {
		return err
	}
	for _, tokenID := range lo.Uniq(arg.TokenIDs) {
		token, existed := s.token(arg.NftContractID, tokenID)
		if !existed {
			token.Owner = arg.Owner
		}
		token.BurnedReceiptID = ptr(arg.ReceiptID)
		token.BurnedTimestamp = ptr(arg.Timestamp)
	}
	return nil
}

func (s *memStore) SetTokenSplits(_ context.Context, arg datagateway.SetTokenSplitsParams) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, tokenID := range arg.TokenIDs {
		if token, ok := s.tokens[tokenKey{arg.NftContractID, tokenID}]; ok {
			token.Splits = arg.Splits
		}
	}
	return nil
}

func (s *memStore) InsertActivities(_ context.Context, activities []entity.Activity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range activities {
		if err := s.fail(a.ReceiptID); err != nil {
			return err
		}
		key := activityKey{a.ReceiptID, a.NftContractID, a.TokenID, a.Kind}
		if _, ok := s.activities[key]; !ok {
			s.activities[key] = a
		}
	}
	return nil
}

func (s *memStore) UpsertApproval(_ context.Context, approval entity.Approval) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.approvals[approvalKey{approval.NftContractID, approval.TokenID, approval.ApprovedAccountID}] = approval
	return nil
}

func (s *memStore) DeleteApproval(_ context.Context, arg datagateway.DeleteApprovalParams) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.approvals, approvalKey{arg.NftContractID, arg.TokenID, arg.ApprovedAccountID})
	return nil
}

func (s *memStore) DeleteTokenApprovals(_ context.Context, contractID, tokenID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key := range s.approvals {
		if key.Contract == contractID && key.Token == tokenID {
			delete(s.approvals, key)
		}
	}
	return nil
}

func (s *memStore) UpsertContract(_ context.Context, contract entity.Contract) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.contracts[contract.ID]; ok {
		contract.CreatedAt = existing.CreatedAt
		contract.CreatedReceiptID = existing.CreatedReceiptID
	}
	s.contracts[contract.ID] = &contract
	return nil
}

func (s *memStore) UpdateContract(_ context.Context, arg datagateway.UpdateContractParams) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	contract, ok := s.contracts[arg.ID]
	if !ok {
		return nil
	}
	if arg.OwnerID != nil {
		contract.OwnerID = *arg.OwnerID
	}
	if arg.Icon != nil {
		contract.Icon = arg.Icon
	}
	if arg.BaseURI != nil {
		contract.BaseURI = arg.BaseURI
	}
	return nil
}

func (s *memStore) InsertStoreMinter(_ context.Context, minter entity.StoreMinter) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := minterKey{minter.NftContractID, minter.MinterID}
	if _, ok := s.minters[key]; !ok {
		s.minters[key] = minter
	}
	return nil
}

func (s *memStore) DeleteStoreMinter(_ context.Context, contractID, minterID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.minters, minterKey{contractID, minterID})
	return nil
}

func (s *memStore) InsertListing(_ context.Context, arg datagateway.InsertListingParams) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail(arg.ReceiptID); err != nil {
		return err
	}
	if _, ok := s.listings[arg.ListingKey]; ok {
		return nil
	}
	listing := arg.Listing
	for key := range s.listings {
		if key.NftContractID != listing.NftContractID || key.TokenID != listing.TokenID {
			continue
		}
		if arg.MarketScope != nil && key.MarketID != *arg.MarketScope {
			continue
		}
		if key.ApprovalID > listing.ApprovalID {
			listing.InvalidatedAt = ptr(listing.CreatedAt)
			break
		}
	}
	s.listings[listing.ListingKey] = &listing
	return nil
}

func (s *memStore) UpdateListing(_ context.Context, arg datagateway.UpdateListingParams) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	listing, ok := s.listings[arg.ListingKey]
	if !ok || !listing.IsLive() {
		return nil
	}
	if arg.Price != nil {
		listing.Price = arg.Price
	}
	if arg.Kind != nil {
		listing.Kind = *arg.Kind
	}
	return nil
}

func (s *memStore) UnlistListing(_ context.Context, arg datagateway.UnlistListingParams) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail(arg.ReceiptID); err != nil {
		return err
	}
	listing, ok := s.listings[arg.ListingKey]
	if !ok || listing.UnlistedAt != nil || listing.AcceptedAt != nil {
		return nil
	}
	listing.UnlistedAt = ptr(arg.Timestamp)
	listing.UnlistedReceiptID = ptr(arg.ReceiptID)
	return nil
}

func (s *memStore) AcceptListing(_ context.Context, arg datagateway.AcceptListingParams) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail(arg.ReceiptID); err != nil {
		return err
	}
	listing, ok := s.listings[arg.ListingKey]
	if !ok || listing.UnlistedAt != nil {
		return nil
	}
	listing.AcceptedAt = ptr(arg.Timestamp)
	listing.AcceptedReceiptID = ptr(arg.ReceiptID)
	listing.AcceptedOfferID = ptr(arg.OfferID)
	listing.InvalidatedAt = nil
	return nil
}

func (s *memStore) InvalidateListing(_ context.Context, key entity.ListingKey, timestamp time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	listing, ok := s.listings[key]
	if !ok || listing.AcceptedAt != nil {
		return nil
	}
	if listing.InvalidatedAt == nil {
		listing.InvalidatedAt = ptr(timestamp)
	}
	return nil
}

func matchesToken(key entity.ListingKey, arg datagateway.InvalidateTokenParams) bool {
	if key.NftContractID != arg.NftContractID || !lo.Contains(arg.TokenIDs, key.TokenID) {
		return false
	}
	if arg.MarketID != nil && key.MarketID != *arg.MarketID {
		return false
	}
	if arg.BelowApprovalID != nil && key.ApprovalID >= *arg.BelowApprovalID {
		return false
	}
	return true
}

func (s *memStore) InvalidateTokenListings(_ context.Context, arg datagateway.InvalidateTokenParams) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, listing := range s.listings {
		if matchesToken(key, arg) && listing.IsLive() {
			listing.InvalidatedAt = ptr(arg.Timestamp)
		}
	}
	return nil
}

func (s *memStore) InsertOffer(_ context.Context, offer entity.Offer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail(offer.ReceiptID); err != nil {
		return err
	}
	if _, ok := s.offers[offer.OfferKey]; ok {
		return nil
	}
	for key := range s.offers {
		if key.ListingKey == offer.ListingKey && key.OfferID > offer.OfferID {
			offer.OutbidAt = ptr(offer.OfferedAt)
			break
		}
	}
	if listing, ok := s.listings[offer.ListingKey]; ok && offer.OutbidAt == nil &&
		(listing.UnlistedAt != nil || listing.InvalidatedAt != nil) {
		offer.InvalidatedAt = ptr(offer.OfferedAt)
	}
	s.offers[offer.OfferKey] = &offer
	return nil
}

func (s *memStore) OutbidOffers(_ context.Context, arg datagateway.OutbidOffersParams) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, offer := range s.offers {
		if key.ListingKey == arg.ListingKey && key.OfferID < arg.OfferID && offer.IsLive() {
			offer.OutbidAt = ptr(arg.Timestamp)
		}
	}
	return nil
}

func (s *memStore) WithdrawOffer(_ context.Context, key entity.OfferKey, timestamp time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	offer, ok := s.offers[key]
	if !ok || offer.WithdrawnAt != nil || offer.AcceptedAt != nil {
		return nil
	}
	offer.WithdrawnAt = ptr(timestamp)
	return nil
}

func (s *memStore) AcceptOffer(_ context.Context, key entity.OfferKey, timestamp time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	offer, ok := s.offers[key]
	if !ok {
		return nil
	}
	offer.AcceptedAt = ptr(timestamp)
	offer.InvalidatedAt = nil
	offer.OutbidAt = nil
	return nil
}

func (s *memStore) InvalidateListingOffers(_ context.Context, listingKey entity.ListingKey, timestamp time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, offer := range s.offers {
		if key.ListingKey == listingKey && offer.IsLive() {
			offer.InvalidatedAt = ptr(timestamp)
		}
	}
	return nil
}

func (s *memStore) InvalidateTokenOffers(_ context.Context, arg datagateway.InvalidateTokenParams) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, offer := range s.offers {
		if matchesToken(key.ListingKey, arg) && offer.IsLive() {
			offer.InvalidatedAt = ptr(arg.Timestamp)
		}
	}
	return nil
}

func (s *memStore) InsertEarnings(_ context.Context, earnings []entity.Earning) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range earnings {
		key := earningKey{e.OfferKey, e.ReceiverID, e.IsReferral, e.IsAffiliate, e.IsMintbaseCut}
		if _, ok := s.earnings[key]; !ok {
			s.earnings[key] = e
		}
	}
	return nil
}

func (s *memStore) UpsertExternalListing(_ context.Context, listing entity.ExternalListing) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.external[listing.ExternalListingKey] = &listing
	return nil
}

func (s *memStore) DeleteExternalListing(_ context.Context, arg datagateway.ExternalListingUpdateParams) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if listing, ok := s.external[arg.ExternalListingKey]; ok {
		listing.DeletedAt = ptr(arg.Timestamp)
		listing.DeletionReceiptID = ptr(arg.ReceiptID)
	}
	return nil
}

func (s *memStore) SellExternalListing(_ context.Context, arg datagateway.SellExternalListingParams) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if listing, ok := s.external[arg.ExternalListingKey]; ok {
		listing.BuyerID = ptr(arg.BuyerID)
		listing.SalePrice = ptr(arg.Price)
		listing.SoldAt = ptr(arg.Timestamp)
		listing.SaleReceiptID = ptr(arg.ReceiptID)
	}
	return nil
}

func (s *memStore) FailExternalListing(_ context.Context, arg datagateway.ExternalListingUpdateParams) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if listing, ok := s.external[arg.ExternalListingKey]; ok {
		listing.FailedAt = ptr(arg.Timestamp)
		listing.FailureReceiptID = ptr(arg.ReceiptID)
	}
	return nil
}

func (s *memStore) ApplyFtMovement(_ context.Context, m entity.FtMovement) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail(m.ReceiptID); err != nil {
		return err
	}
	key := ftActivityKey{m.ReceiptID, m.LogIndex, m.ItemIndex}
	if _, ok := s.ftSeen[key]; ok {
		return nil
	}
	s.ftSeen[key] = struct{}{}

	if m.OldOwnerID != "" {
		from := ftBalanceKey{m.FtContract, m.OldOwnerID}
		balance := s.ftBalances[from]
		if balance.Cmp(m.Amount) < 0 {
			s.ftBalances[from] = uint128.Zero
		} else {
			s.ftBalances[from] = balance.Sub(m.Amount)
		}
	}
	if m.NewOwnerID != "" {
		to := ftBalanceKey{m.FtContract, m.NewOwnerID}
		s.ftBalances[to] = s.ftBalances[to].Add(m.Amount)
	}
	return nil
}

func (s *memStore) InsertAccessKey(_ context.Context, key entity.AccessKey) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := accessKeyKey{key.AccountID, key.PublicKey, key.CreatedReceiptID}
	if _, ok := s.accessKeys[k]; !ok {
		s.accessKeys[k] = &key
	}
	return nil
}

func (s *memStore) RemoveAccessKey(_ context.Context, arg datagateway.RemoveAccessKeyParams) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, key := range s.accessKeys {
		if k.Account == arg.AccountID && k.PublicKey == arg.PublicKey && key.RemovedAt == nil {
			key.RemovedAt = ptr(arg.Timestamp)
			key.RemovedReceiptID = ptr(arg.ReceiptID)
		}
	}
	return nil
}

func (s *memStore) InsertAccount(_ context.Context, account entity.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := accountKey{account.AccountID, account.CreatedReceiptID}
	if _, ok := s.accounts[k]; !ok {
		s.accounts[k] = &account
	}
	return nil
}

func (s *memStore) RemoveAccount(_ context.Context, arg datagateway.RemoveAccountParams) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, account := range s.accounts {
		if k.Account == arg.AccountID && account.RemovedAt == nil {
			account.RemovedAt = ptr(arg.Timestamp)
			account.RemovedReceiptID = ptr(arg.ReceiptID)
			account.BeneficiaryID = ptr(arg.BeneficiaryID)
		}
	}
	return nil
}

// test helpers

func (s *memStore) listing(key entity.ListingKey) *entity.Listing {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listings[key]
}

func (s *memStore) offer(key entity.OfferKey) *entity.Offer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.offers[key]
}

func (s *memStore) earningsOf(key entity.OfferKey) []entity.Earning {
	s.mu.Lock()
	defer s.mu.Unlock()
	return lo.Filter(lo.Values(s.earnings), func(e entity.Earning, _ int) bool {
		return e.OfferKey == key
	})
}

func (s *memStore) activitiesOf(kind entity.ActivityKind) []entity.Activity {
	s.mu.Lock()
	defer s.mu.Unlock()
	return lo.Filter(lo.Values(s.activities), func(a entity.Activity, _ int) bool {
		return a.Kind == kind
	})
}

func (s *memStore) rowCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tokens) + len(s.approvals) + len(s.contracts) + len(s.minters) + len(s.listings) +
		len(s.offers) + len(s.earnings) + len(s.activities) + len(s.external) + len(s.ftBalances) +
		len(s.accessKeys) + len(s.accounts)
}

// recordingNotifier keeps every enrichment message.
type recordingNotifier struct {
	mu       sync.Mutex
	messages []enrichment.Message
}

func (n *recordingNotifier) Notify(_ context.Context, messages ...enrichment.Message) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, messages...)
}

func (n *recordingNotifier) tags() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return lo.Map(n.messages, func(m enrichment.Message, _ int) string { return m.Tag() })
}
