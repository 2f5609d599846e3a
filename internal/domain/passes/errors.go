package passes

import "pass-breeding/internal/platform/apperr"

var (
	// Referencias
	ErrInvalidID    = apperr.New(apperr.KindInvalidReference, apperr.CodeInvalidID, "Id 0 is invalid")
	ErrPassNotFound = apperr.New(apperr.KindInvalidReference, "pass_not_found", "Pass does not exist")

	// Autorización
	ErrNotMatronOwner  = apperr.New(apperr.KindAuthorization, "not_matron_owner", "Caller must own the matron")
	ErrNotSireOwner    = apperr.New(apperr.KindAuthorization, "not_sire_owner", "Caller must own the sire")
	ErrSireNotApproved = apperr.New(apperr.KindAuthorization, "sire_not_approved", "Caller must own or be approved for the sire")
	ErrNotOwner        = apperr.New(apperr.KindAuthorization, "not_owner", "Caller is not token owner")
	ErrLaunchpadAuth   = apperr.New(apperr.KindAuthorization, "launchpad_unauthorized", "LaunchpadNFT: unauthorized")

	// Estado
	ErrInvalidPair      = apperr.New(apperr.KindStatePrecondition, "invalid_pair", "Not valid mating pair")
	ErrMatronLimit      = apperr.New(apperr.KindStatePrecondition, "matron_limit", "Matron reached breeding limit")
	ErrSireLimit        = apperr.New(apperr.KindStatePrecondition, "sire_limit", "Sire reached breeding limit")
	ErrMatronPregnant   = apperr.New(apperr.KindStatePrecondition, "matron_pregnant", "Matron is pregnant")
	ErrMatronNotReady   = apperr.New(apperr.KindStatePrecondition, "matron_not_ready", "Not ready to breed: matron")
	ErrSireNotReady     = apperr.New(apperr.KindStatePrecondition, "sire_not_ready", "Not ready to breed: sire")
	ErrNotPregnant      = apperr.New(apperr.KindStatePrecondition, "not_pregnant", "Not pregnant: matron")
	ErrNotReadyToBirth  = apperr.New(apperr.KindStatePrecondition, "not_ready_to_birth", "Not ready to birth: matron")
	ErrSameOwner        = apperr.New(apperr.KindStatePrecondition, "same_owner", "Transfer to current owner")
	ErrInvalidBatchSize = apperr.New(apperr.KindConfiguration, "invalid_batch_size", "Batch size must be >= 1")

	// Configuración
	ErrZeroAddress      = apperr.New(apperr.KindConfiguration, "zero_address", "Set zero address")
	ErrAlreadySet       = apperr.New(apperr.KindConfiguration, "already_set", "Address set already")
	ErrEmptyURI         = apperr.New(apperr.KindConfiguration, "empty_uri", "Empty URI")
	ErrInvalidGenes     = apperr.New(apperr.KindConfiguration, "invalid_genes", "Invalid genes")
	ErrTreasuryNotSet   = apperr.New(apperr.KindConfiguration, "treasury_not_set", "Treasury not set")
	ErrMaxSupplyTooLow  = apperr.New(apperr.KindConfiguration, "max_supply_too_low", "Max supply below current supply")
	ErrRandomServiceBad = apperr.New(apperr.KindConfiguration, "invalid_random_service", "Invalid random service")

	// Supply
	ErrGenesisCap   = apperr.New(apperr.KindSupplyCap, "genesis_cap", "Max gen0 limit exceed")
	ErrLaunchpadCap = apperr.New(apperr.KindSupplyCap, "launchpad_cap", "LaunchpadNFT: Exceeds maxSupply")

	// Operacionales
	ErrTransferPaused = apperr.New(apperr.KindOperational, "transfer_paused", "NFT transfer while paused")
	ErrFeeTransfer    = apperr.New(apperr.KindOperational, "fee_transfer_failed", "Fee transfer failed")
	ErrRandomness     = apperr.New(apperr.KindOperational, "randomness_unavailable", "Random service unavailable")
	ErrStorage        = apperr.New(apperr.KindOperational, "storage_failed", "Storage failure")
)
