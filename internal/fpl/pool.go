package fpl

// PoolRow is one row of the tabular candidate pool. The forecast score is
// attached by the prediction layer before the optimizers run; the engine
// never computes it.
type PoolRow struct {
	FirstName       string  `csv:"first_name" json:"first_name"`
	SecondName      string  `csv:"second_name" json:"second_name"`
	PositionCode    int     `csv:"element_type" json:"element_type"`
	Cost            int     `csv:"now_cost" json:"now_cost"`
	Club            string  `csv:"team" json:"team"`
	PredictedPoints float64 `csv:"predicted_points" json:"predicted_points"`
}

// Player converts the row's identity fields into an immutable Player.
func (r PoolRow) Player() (Player, error) {
	return NewPlayer(r.FirstName, r.SecondName, r.PositionCode, r.Cost, r.Club)
}

// FullName is the concatenated identity used for table joins.
func (r PoolRow) FullName() string {
	return r.FirstName + " " + r.SecondName
}
