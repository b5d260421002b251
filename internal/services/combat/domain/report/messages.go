package report

// Message ids. Each id has a template in the report catalog keyed
// "report.<id>".
const (
	MsgBattleStart   = 1000
	MsgRoundStart    = 1001
	MsgPhaseStart    = 1002
	MsgActionRefused = 1003

	MsgInitiativeRoll  = 1100
	MsgInitiativeOrder = 1101

	MsgDeploy = 1200
	MsgMove   = 1201
	MsgTarget = 1202

	MsgAttackDeclared     = 2000
	MsgAttackToHit        = 2001
	MsgAttackImpossible   = 2002
	MsgAttackRoll         = 2003
	MsgAttackMiss         = 2004
	MsgAttackHit          = 2005
	MsgHighStress         = 2006
	MsgCrippled           = 2007
	MsgUnitDestroyed      = 2008
	MsgKillUnattributed   = 2009
	MsgCriticalRoll       = 2010
	MsgCriticalNone       = 2011
	MsgCriticalTargeting  = 2012
	MsgCriticalDamage     = 2013
	MsgCriticalBoth       = 2014
	MsgCriticalDestroyed  = 2015
	MsgFormationDestroyed = 2016

	MsgEngagementDeclared   = 3000
	MsgEngagementToHit      = 3001
	MsgEngagementImpossible = 3002
	MsgEngagementRoll       = 3003
	MsgManeuverToHit        = 3004
	MsgManeuverRoll         = 3005
	MsgEngagementVictory    = 3006
	MsgEngagementDefeat     = 3007

	MsgMoraleCheck    = 4000
	MsgMoraleToHit    = 4001
	MsgMoraleRoll     = 4002
	MsgMoralePassed   = 4003
	MsgMoraleFailed   = 4004
	MsgNerveAttempt   = 4100
	MsgNerveToHit     = 4101
	MsgNerveRoll      = 4102
	MsgNerveRecovered = 4103
	MsgNerveFailed    = 4104

	MsgWithdrawAttempt = 5000
	MsgWithdrawToHit   = 5001
	MsgWithdrawRoll    = 5002
	MsgWithdrawSuccess = 5003
	MsgWithdrawFailed  = 5004

	MsgVictory    = 6000
	MsgDraw       = 6001
	MsgRoundLimit = 6002
)

// IDs lists every message id, in numeric order.
var IDs = []int{
	MsgBattleStart, MsgRoundStart, MsgPhaseStart, MsgActionRefused,
	MsgInitiativeRoll, MsgInitiativeOrder,
	MsgDeploy, MsgMove, MsgTarget,
	MsgAttackDeclared, MsgAttackToHit, MsgAttackImpossible, MsgAttackRoll,
	MsgAttackMiss, MsgAttackHit, MsgHighStress, MsgCrippled, MsgUnitDestroyed,
	MsgKillUnattributed, MsgCriticalRoll, MsgCriticalNone, MsgCriticalTargeting,
	MsgCriticalDamage, MsgCriticalBoth, MsgCriticalDestroyed, MsgFormationDestroyed,
	MsgEngagementDeclared, MsgEngagementToHit, MsgEngagementImpossible,
	MsgEngagementRoll, MsgManeuverToHit, MsgManeuverRoll, MsgEngagementVictory,
	MsgEngagementDefeat,
	MsgMoraleCheck, MsgMoraleToHit, MsgMoraleRoll, MsgMoralePassed, MsgMoraleFailed,
	MsgNerveAttempt, MsgNerveToHit, MsgNerveRoll, MsgNerveRecovered, MsgNerveFailed,
	MsgWithdrawAttempt, MsgWithdrawToHit, MsgWithdrawRoll, MsgWithdrawSuccess,
	MsgWithdrawFailed,
	MsgVictory, MsgDraw, MsgRoundLimit,
}
