package report

// Code identifies the kind of finding. The set is closed; frontends switch on
// it to localize messages.
type Code string

const (
	// option validation framework
	CodeRequiredOptionIsMissing     Code = "REQUIRED_OPTION_IS_MISSING"
	CodeInvalidOptionValue          Code = "INVALID_OPTION_VALUE"
	CodeInvalidOptions              Code = "INVALID_OPTIONS"
	CodeInvalidUserdefinedOptions   Code = "INVALID_USERDEFINED_OPTIONS"
	CodePrerequisiteOptionIsMissing Code = "PREREQUISITE_OPTION_IS_MISSING"

	// id handling
	CodeEmptyID         Code = "EMPTY_ID"
	CodeInvalidID       Code = "INVALID_ID"
	CodeIDAlreadyExists Code = "ID_ALREADY_EXISTS"

	// corosync configuration
	CodeCorosyncBadNodeAddressesCount              Code = "COROSYNC_BAD_NODE_ADDRESSES_COUNT"
	CodeNodeAddressesUnresolvable                  Code = "NODE_ADDRESSES_UNRESOLVABLE"
	CodeCorosyncNodeNameDuplication                Code = "COROSYNC_NODE_NAME_DUPLICATION"
	CodeCorosyncNodeAddressDuplication             Code = "COROSYNC_NODE_ADDRESS_DUPLICATION"
	CodeCorosyncNodeAddressCountMismatch           Code = "COROSYNC_NODE_ADDRESS_COUNT_MISMATCH"
	CodeCorosyncIPVersionMismatchInLinks           Code = "COROSYNC_IP_VERSION_MISMATCH_IN_LINKS"
	CodeCorosyncEnabledBroadcastDisallowsMcastaddr Code = "COROSYNC_ENABLED_BROADCAST_DISALLOWS_MCASTADDR"
	CodeCorosyncTooManyLinks                       Code = "COROSYNC_TOO_MANY_LINKS"
	CodeCorosyncLinkNumberDuplication              Code = "COROSYNC_LINK_NUMBER_DUPLICATION"
	CodeCorosyncCryptoCipherRequiresCryptoHash     Code = "COROSYNC_CRYPTO_CIPHER_REQUIRES_CRYPTO_HASH"
	CodeCorosyncOptionsIncompatibleWithQdevice     Code = "COROSYNC_OPTIONS_INCOMPATIBLE_WITH_QDEVICE"

	// constraints
	CodeResourceDoesNotExist      Code = "RESOURCE_DOES_NOT_EXIST"
	CodeResourceIsInClone         Code = "RESOURCE_IS_IN_CLONE"
	CodeResourceIsInMaster        Code = "RESOURCE_IS_IN_MASTER"
	CodeDuplicateConstraintsExist Code = "DUPLICATE_CONSTRAINTS_EXIST"

	// quorum device runtime status
	CodeQdeviceGetStatusError        Code = "QDEVICE_GET_STATUS_ERROR"
	CodeCorosyncQuorumGetStatusError Code = "COROSYNC_QUORUM_GET_STATUS_ERROR"
)
