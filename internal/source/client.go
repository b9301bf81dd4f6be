// Package source talks to the game bridge over a websocket and exposes
// the typed reads the exporter needs. The client is not reentrant: one
// call at a time, matching the single export worker that owns it.
package source

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/gorilla/websocket"

	"fortvox.dev/internal/protocol"
)

const (
	callTimeout      = 30 * time.Second
	handshakeTimeout = 5 * time.Second
)

// Client is one RPC connection to the bridge.
type Client struct {
	conn   *websocket.Conn
	nextID uint64
}

// Dial connects to the bridge at the given ws url.
func Dial(url string) (*Client, error) {
	d := websocket.Dialer{HandshakeTimeout: handshakeTimeout}
	conn, _, err := d.Dial(url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", url, err)
	}
	return &Client{conn: conn}, nil
}

func (c *Client) Close() error {
	return c.conn.Close()
}

// call performs one request/response round trip. Replies arrive in call
// order; a mismatched id means the stream is corrupt and the export
// cannot continue.
func (c *Client) call(method string, params any, result any) error {
	c.nextID++
	req := protocol.Request{ID: c.nextID, Method: method}
	if params != nil {
		b, err := json.Marshal(params)
		if err != nil {
			return fmt.Errorf("%s: encode params: %w", method, err)
		}
		req.Params = b
	}

	_ = c.conn.SetWriteDeadline(time.Now().Add(callTimeout))
	if err := c.conn.WriteJSON(req); err != nil {
		return fmt.Errorf("%s: send: %w", method, err)
	}

	_ = c.conn.SetReadDeadline(time.Now().Add(callTimeout))
	_, msg, err := c.conn.ReadMessage()
	if err != nil {
		return fmt.Errorf("%s: recv: %w", method, err)
	}
	var resp protocol.Response
	if err := json.Unmarshal(msg, &resp); err != nil {
		return fmt.Errorf("%s: decode reply: %w", method, err)
	}
	if resp.ID != req.ID {
		return fmt.Errorf("%s: reply id %d for request %d", method, resp.ID, req.ID)
	}
	if resp.Error != "" {
		return &protocol.BridgeError{Method: method, Code: resp.Error}
	}
	if result != nil && len(resp.Result) > 0 {
		if err := json.Unmarshal(resp.Result, result); err != nil {
			return fmt.Errorf("%s: decode result: %w", method, err)
		}
	}
	return nil
}

func (c *Client) MapInfo() (protocol.MapInfo, error) {
	var out protocol.MapInfo
	err := c.call(protocol.MethodGetMapInfo, nil, &out)
	return out, err
}

func (c *Client) ViewInfo() (protocol.ViewInfo, error) {
	var out protocol.ViewInfo
	err := c.call(protocol.MethodGetViewInfo, nil, &out)
	return out, err
}

func (c *Client) WorldStatus() (protocol.WorldStatus, error) {
	var out protocol.WorldStatus
	err := c.call(protocol.MethodGetWorldStatus, nil, &out)
	return out, err
}

func (c *Client) TiletypeList() ([]protocol.TileType, error) {
	var out struct {
		List []protocol.TileType `json:"tiletype_list"`
	}
	err := c.call(protocol.MethodGetTiletypeList, nil, &out)
	return out.List, err
}

func (c *Client) MaterialList() ([]protocol.MaterialDef, error) {
	var out struct {
		List []protocol.MaterialDef `json:"material_list"`
	}
	err := c.call(protocol.MethodGetMaterialList, nil, &out)
	return out.List, err
}

func (c *Client) BasicMaterialInfoList() ([]protocol.BasicMaterialInfo, error) {
	var out struct {
		List []protocol.BasicMaterialInfo `json:"value"`
	}
	err := c.call(protocol.MethodGetBasicMatInfo, nil, &out)
	return out.List, err
}

func (c *Client) EnumList() (protocol.EnumList, error) {
	var out protocol.EnumList
	err := c.call(protocol.MethodGetEnumList, nil, &out)
	return out, err
}

func (c *Client) PlantRaws() ([]protocol.PlantRaw, error) {
	var out struct {
		List []protocol.PlantRaw `json:"plant_raws"`
	}
	err := c.call(protocol.MethodGetPlantRaws, nil, &out)
	return out.List, err
}

func (c *Client) BuildingDefs() ([]protocol.BuildingDef, error) {
	var out struct {
		List []protocol.BuildingDef `json:"building_list"`
	}
	err := c.call(protocol.MethodGetBuildingDefs, nil, &out)
	return out.List, err
}

func (c *Client) BlockList(req protocol.BlockRequest) (protocol.BlockList, error) {
	var out protocol.BlockList
	err := c.call(protocol.MethodGetBlockList, req, &out)
	return out, err
}

// SetPause pauses or resumes the game. The map must not mutate while
// blocks stream.
func (c *Client) SetPause(paused bool) error {
	params := struct {
		Value bool `json:"value"`
	}{Value: paused}
	return c.call(protocol.MethodSetPauseState, params, nil)
}

// ResetMapHashes forces the bridge to re-send every block, including
// ones it believes unchanged since a previous scan.
func (c *Client) ResetMapHashes() error {
	return c.call(protocol.MethodResetMapHashes, nil, nil)
}
