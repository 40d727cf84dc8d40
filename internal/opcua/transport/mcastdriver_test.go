package transport

import (
	"net"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestProgramEthernetMulticastFilterNoopWithoutHAL(t *testing.T) {
	err := ProgramEthernetMulticastFilter(net.ParseIP("239.1.1.1"), true)
	require.NoError(t, err)
}
