package common

import "fmt"

// Network is a NEAR network whose lake bucket can be consumed.
type Network string

const (
	NetworkMainnet Network = "mainnet"
	NetworkTestnet Network = "testnet"
)

var supportedNetworks = map[Network]struct{}{
	NetworkMainnet: {},
	NetworkTestnet: {},
}

func (n Network) IsSupported() bool {
	_, ok := supportedNetworks[n]
	return ok
}

// LakeBucket returns the public NEAR Lake bucket holding the network's blocks.
func (n Network) LakeBucket() string {
	return fmt.Sprintf("near-lake-data-%s", n)
}

func (n Network) String() string {
	return string(n)
}
