package api

import (
	"github.com/gin-gonic/gin"
	"github.com/gowvp/wink/internal/core/game"
	"github.com/gowvp/wink/internal/core/round"
	"github.com/ixugo/goddd/pkg/web"
)

// RoundAPI 对局记录查询
type RoundAPI struct {
	core round.Core
}

func registerRound(r gin.IRouter, api RoundAPI, handler ...gin.HandlerFunc) {
	group := gzipGroup(r, "/rounds")
	group.GET("", web.WrapH(api.findRounds))
	group.GET("/best", web.WrapH(api.getBestScore))
	group.GET("/:id", web.WrapH(api.getRound))
	group.DELETE("/:id", append(handler, web.WrapH(api.delRound))...)
}

type findRoundsOutput struct {
	Items []*round.Round `json:"items"`
	Total int64          `json:"total"`
}

func (api RoundAPI) findRounds(c *gin.Context, in *round.FindRoundInput) (findRoundsOutput, error) {
	items, total, err := api.core.FindRounds(c.Request.Context(), in)
	if err != nil {
		return findRoundsOutput{}, err
	}
	return findRoundsOutput{Items: items, Total: total}, nil
}

type getBestScoreOutput struct {
	BestScore int    `json:"best_score"`
	ScoreText string `json:"score_text"`
}

func (api RoundAPI) getBestScore(c *gin.Context, _ *struct{}) (getBestScoreOutput, error) {
	best, err := api.core.BestScore(c.Request.Context())
	if err != nil {
		return getBestScoreOutput{}, err
	}
	return getBestScoreOutput{BestScore: best, ScoreText: game.ScoreText(best)}, nil
}

func (api RoundAPI) getRound(c *gin.Context, _ *struct{}) (*round.Round, error) {
	return api.core.GetRound(c.Request.Context(), c.Param("id"))
}

func (api RoundAPI) delRound(c *gin.Context, _ *struct{}) (*round.Round, error) {
	return api.core.DelRound(c.Request.Context(), c.Param("id"))
}
