package protocol

import "encoding/json"

// Request is one RPC call to the bridge. ID ties the reply back to the
// call; Params is the method-specific payload, already encoded.
type Request struct {
	ID     uint64          `json:"id"`
	Method string          `json:"method"`
	Params json.RawMessage `json:"params,omitempty"`
}

// Response is one RPC reply. Exactly one of Result or Error is set.
type Response struct {
	ID     uint64          `json:"id"`
	Result json.RawMessage `json:"result,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// Bridge method names.
const (
	MethodGetMapInfo      = "GetMapInfo"
	MethodGetViewInfo     = "GetViewInfo"
	MethodGetWorldStatus  = "GetWorldStatus"
	MethodGetTiletypeList = "GetTiletypeList"
	MethodGetMaterialList = "GetMaterialList"
	MethodGetBasicMatInfo = "GetBasicMaterialInfoList"
	MethodGetEnumList     = "GetEnumList"
	MethodGetPlantRaws    = "GetPlantRaws"
	MethodGetBuildingDefs = "GetBuildingDefList"
	MethodGetBlockList    = "GetBlockList"
	MethodSetPauseState   = "SetPauseState"
	MethodResetMapHashes  = "ResetMapHashes"
)
