package services

import (
	"context"

	"github.com/hangoctan1012/FaceCookTan/pkg/messaging"
)

// FollowerClient resolves follower lists through the user service RPC.
type FollowerClient struct {
	rpc *messaging.RPCClient
}

func NewFollowerClient(rpc *messaging.RPCClient) *FollowerClient {
	return &FollowerClient{rpc: rpc}
}

func (c *FollowerClient) Followers(ctx context.Context, actorID string) ([]string, error) {
	req := messaging.FollowersRequest{
		Type:    "get_followers",
		ActorID: actorID,
	}

	var resp messaging.FollowersResponse
	if err := c.rpc.Call(ctx, req, &resp); err != nil {
		return nil, err
	}
	return resp.Followers, nil
}
