package model

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"tokenomics-kernel/utils/generics/must"
)

// ExecuteTransferEvent is emitted by the executor contract when an inscribed
// transfer should settle. Id is the hash of the inscribing transaction.
type ExecuteTransferEvent struct {
	From common.Address
	To   common.Address
	Id   [32]byte
}

func (e *ExecuteTransferEvent) Hash() string {
	return fmt.Sprintf("0x%x", e.Id)
}

const ExecuteEventABIJson = `[{"anonymous":false,"inputs":[{"indexed":true,"internalType":"address","name":"from","type":"address"},{"indexed":true,"internalType":"address","name":"to","type":"address"},{"indexed":false,"internalType":"bytes32","name":"id","type":"bytes32"}],"name":"brc100_protocol_ExecuteTransfer","type":"event"}]`

const ExecuteEventName = "brc100_protocol_ExecuteTransfer"

var (
	ExecuteEventABI = must.Must(abi.JSON(strings.NewReader(ExecuteEventABIJson)))

	TopicsExecuteTransfer = EventTopic(ExecuteEventName + "(address,address,bytes32)")
)

// ParseEventLog unpacks the data and indexed topics of a log into a map keyed
// by argument name.
func ParseEventLog(parsedAbi abi.ABI, eventName string, logData *types.Log) (map[string]interface{}, error) {
	event, exists := parsedAbi.Events[eventName]
	if !exists {
		return nil, fmt.Errorf("event '%s' not found", eventName)
	}

	eventData := make(map[string]interface{})
	if err := parsedAbi.UnpackIntoMap(eventData, eventName, logData.Data); err != nil {
		return nil, fmt.Errorf("failed to unpack event data: %w", err)
	}

	var indexed abi.Arguments
	for _, input := range event.Inputs {
		if input.Indexed {
			indexed = append(indexed, input)
		}
	}
	if len(logData.Topics) != len(indexed)+1 {
		return nil, fmt.Errorf("event '%s' expects %d topics, got %d", eventName, len(indexed)+1, len(logData.Topics))
	}
	for i, topic := range logData.Topics[1:] {
		eventData[indexed[i].Name] = topic
	}

	return eventData, nil
}

func ParseExecuteEvent(logData *types.Log) (*ExecuteTransferEvent, error) {
	eventData, err := ParseEventLog(ExecuteEventABI, ExecuteEventName, logData)
	if err != nil {
		return nil, err
	}

	var event ExecuteTransferEvent
	if from, ok := eventData["from"].(common.Hash); ok {
		event.From = common.BytesToAddress(from[:])
	}
	if to, ok := eventData["to"].(common.Hash); ok {
		event.To = common.BytesToAddress(to[:])
	}
	if id, ok := eventData["id"].([32]byte); ok {
		event.Id = id
	}
	return &event, nil
}

// PackExecuteEvent builds the log an executor emits for event, for replaying
// and testing.
func PackExecuteEvent(contract common.Address, event *ExecuteTransferEvent) (*types.Log, error) {
	data, err := ExecuteEventABI.Events[ExecuteEventName].Inputs.NonIndexed().Pack(event.Id)
	if err != nil {
		return nil, err
	}
	return &types.Log{
		Address: contract,
		Topics: []common.Hash{
			common.HexToHash(TopicsExecuteTransfer),
			common.BytesToHash(event.From.Bytes()),
			common.BytesToHash(event.To.Bytes()),
		},
		Data: data,
	}, nil
}
